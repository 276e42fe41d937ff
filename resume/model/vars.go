// Package model flattens a profile into the fixed placeholder vocabulary used
// by the resume and cover letter templates.
package model

import (
	"fmt"
	"sort"

	"jobapp/internal/profile"
)

// Fixed slot counts rendered into a document.
const (
	SkillSlots        = 8
	CourseworkSlots   = 6
	ExperienceSlots   = 2
	VolunteerSlots    = 1
	BulletSlots       = 3
	HiringManagerName = "Hiring Manager"
)

var bulletSuffixes = [BulletSlots]string{"a", "b", "c"}

// JobContext carries the per-listing values that sit next to profile facts.
type JobContext struct {
	JobTitle  string
	Company   string
	Summary   string
	Paragraph string
}

// Vars builds the placeholder map. Short sequences are padded with empty
// strings and extra entries are left out of the map, never out of p.
func Vars(p profile.Profile, job JobContext) map[string]string {
	pi := p.PersonalInfo
	edu := profile.FormatEducation(pi)

	vars := map[string]string{
		"JobTitle":          job.JobTitle,
		"Company":           job.Company,
		"HiringManagerName": HiringManagerName,

		"Your Full Name":    pi.FullName,
		"Your Email":        pi.Email,
		"Your Phone Number": pi.Phone,
		"Your LinkedIn URL": pi.LinkedIn,
		"Your Location":     pi.Location,
		"YourField":         pi.Field,
		"Degree":            edu.DegreeText,
		"Major":             pi.Major,
		"School":            pi.School,
		"GraduationYear":    pi.GraduationYear,
		"EducationLine":     edu.Line,

		"CustomSummary":         job.Summary,
		"CustomParagraphFromAI": job.Paragraph,
	}

	for i := 0; i < SkillSlots; i++ {
		vars[fmt.Sprintf("Skill%d", i+1)] = at(p.Skills, i)
	}
	for i := 0; i < CourseworkSlots; i++ {
		vars[fmt.Sprintf("Coursework%d", i+1)] = at(p.Coursework, i)
	}

	for i := 0; i < ExperienceSlots; i++ {
		var exp profile.Experience
		if i < len(p.Experience) {
			exp = p.Experience[i]
		}
		n := i + 1
		vars[fmt.Sprintf("JobTitle%d", n)] = exp.JobTitle
		vars[fmt.Sprintf("Company%d", n)] = exp.Company
		vars[fmt.Sprintf("Dates%d", n)] = exp.Dates
		for b, suffix := range bulletSuffixes {
			vars[fmt.Sprintf("BulletPoint%d%s", n, suffix)] = at(exp.BulletPoints, b)
		}
	}

	for i := 0; i < VolunteerSlots; i++ {
		var vol profile.Volunteer
		if i < len(p.Volunteer) {
			vol = p.Volunteer[i]
		}
		n := i + 1
		vars[fmt.Sprintf("VolunteerTitle%d", n)] = vol.Title
		vars[fmt.Sprintf("VolunteerOrganization%d", n)] = vol.Organization
		vars[fmt.Sprintf("VolunteerDates%d", n)] = vol.Dates
		for b, suffix := range bulletSuffixes {
			vars[fmt.Sprintf("VolunteerBulletPoint%d%s", n, suffix)] = at(vol.BulletPoints, b)
		}
	}

	return vars
}

// Keys lists every placeholder name Vars fills, sorted.
func Keys() []string {
	vars := Vars(profile.Profile{}, JobContext{})
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func at(items []string, i int) string {
	if i < len(items) {
		return items[i]
	}
	return ""
}
