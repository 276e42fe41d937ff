package profile

import (
	"fmt"
	"strings"
)

// Education is the rendered form of the degree fields.
type Education struct {
	DegreeText string
	Line       string
}

// FormatEducation renders the degree according to its completion status.
// Unknown statuses render as completed.
func FormatEducation(pi PersonalInfo) Education {
	status := strings.ToLower(strings.TrimSpace(pi.DegreeStatus))

	degreeText := pi.Degree
	if pi.Major != "" {
		degreeText = fmt.Sprintf("%s in %s", pi.Degree, pi.Major)
	}

	switch status {
	case StatusInProgress:
		degreeText += " (In Progress)"
		return Education{
			DegreeText: degreeText,
			Line:       fmt.Sprintf("%s, %s, Expected %s", degreeText, pi.School, pi.GraduationYear),
		}
	case StatusExpected:
		return Education{
			DegreeText: degreeText,
			Line:       fmt.Sprintf("%s, %s, Expected %s", degreeText, pi.School, pi.GraduationYear),
		}
	default:
		return Education{
			DegreeText: degreeText,
			Line:       fmt.Sprintf("%s, %s, %s", degreeText, pi.School, pi.GraduationYear),
		}
	}
}
