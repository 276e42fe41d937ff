package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/section.txt
	sectionPrompt string
	//go:embed prompts/summary_instructions.txt
	summaryInstructions string
	//go:embed prompts/cover_paragraph_instructions.txt
	coverParagraphInstructions string
	//go:embed prompts/job_title.txt
	jobTitlePrompt string
	//go:embed prompts/professional_title.txt
	professionalTitlePrompt string
	//go:embed prompts/resume_parse_system.txt
	resumeParseSystem string
	//go:embed prompts/resume_parse_user.txt
	resumeParseUser string
)

const (
	jobTitleContextChars          = 1000
	professionalTitleContextChars = 1500
)

// SectionInput carries the facts embedded in a generated-section prompt.
type SectionInput struct {
	JobListing       string
	JobTitle         string
	PersonalInfoJSON string
	Company          string
	EducationLine    string
}

// SummaryPrompt builds the prompt for the resume summary.
func SummaryPrompt(in SectionInput) string {
	example := "Highly motivated and results-oriented professional with X years of experience in [YourField], " +
		"skilled in [Skill1] and [Skill2]. Seeking to leverage expertise in [Area] to contribute as a " + in.JobTitle + "."
	return renderSection("summary", in, example, summaryInstructions)
}

// CoverParagraphPrompt builds the prompt for the middle paragraph of the cover letter.
func CoverParagraphPrompt(in SectionInput) string {
	example := "My experience in [relevant experience] aligns perfectly with the requirements for the " + in.JobTitle +
		" position, particularly my proficiency in [specific skill] and my track record in [achievement]. " +
		"I am confident that my background in [area] and proven ability to [accomplishment] would enable me " +
		"to make meaningful contributions to your team."
	return renderSection("custom paragraph for cover letter", in, example, coverParagraphInstructions)
}

func renderSection(section string, in SectionInput, example, instructions string) string {
	replacer := strings.NewReplacer(
		"{{SECTION}}", section,
		"{{SECTION_UPPER}}", strings.ToUpper(section),
		"{{JOB_LISTING}}", in.JobListing,
		"{{JOB_TITLE}}", in.JobTitle,
		"{{PERSONAL_INFO}}", in.PersonalInfoJSON,
		"{{COMPANY}}", in.Company,
		"{{EDUCATION_LINE}}", in.EducationLine,
		"{{EXAMPLE}}", example,
		"{{INSTRUCTIONS}}", strings.TrimSpace(instructions),
	)
	return strings.TrimSpace(replacer.Replace(sectionPrompt))
}

// JobTitlePrompt asks for a bare job title from the head of a listing.
func JobTitlePrompt(listing string) string {
	return strings.TrimSpace(strings.ReplaceAll(jobTitlePrompt, "{{TEXT}}", head(listing, jobTitleContextChars)))
}

// ProfessionalTitlePrompt asks for a bare professional title from the head of a resume.
func ProfessionalTitlePrompt(resume string) string {
	return strings.TrimSpace(strings.ReplaceAll(professionalTitlePrompt, "{{TEXT}}", head(resume, professionalTitleContextChars)))
}

// ResumeParsePrompt returns the system instruction and the user prompt for structured resume parsing.
func ResumeParsePrompt(resumeText string) (system, prompt string) {
	return strings.TrimSpace(resumeParseSystem),
		strings.TrimSpace(strings.ReplaceAll(resumeParseUser, "{{RESUME_TEXT}}", resumeText))
}

// head returns at most n runes of s.
func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
