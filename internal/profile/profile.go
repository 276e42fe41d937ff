package profile

import (
	"jobapp/internal/llm"
)

// Degree statuses.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
	StatusExpected   = "expected"
)

// Generation defaults used when the profile omits a setting.
const (
	DefaultBaseURL     = "http://localhost:1234/v1"
	DefaultModel       = "local-model"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// Profile is the persisted document of user facts and generation settings.
type Profile struct {
	GenerationSettings GenerationSettings `json:"generation_settings"`
	PersonalInfo       PersonalInfo       `json:"personal_info"`
	Skills             []string           `json:"skills"`
	Coursework         []string           `json:"coursework"`
	Experience         []Experience       `json:"experience" validate:"dive"`
	Volunteer          []Volunteer        `json:"volunteer" validate:"dive"`
}

// GenerationSettings selects the text-generation endpoint.
type GenerationSettings struct {
	BaseURL     string  `json:"base_url" validate:"required,url"`
	Model       string  `json:"model" validate:"required"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `json:"max_tokens" validate:"gt=0"`
}

// LLM converts the settings for the generation client.
func (s GenerationSettings) LLM() llm.Settings {
	return llm.Settings{
		BaseURL:     s.BaseURL,
		Model:       s.Model,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}

// PersonalInfo holds contact and education facts.
type PersonalInfo struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	LinkedIn       string `json:"linkedin"`
	Location       string `json:"location"`
	Field          string `json:"field"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	School         string `json:"school"`
	GraduationYear string `json:"graduation_year"`
	DegreeStatus   string `json:"degree_status" validate:"omitempty,oneof=completed in_progress expected"`
}

// Experience is one job entry.
type Experience struct {
	JobTitle     string   `json:"job_title"`
	Company      string   `json:"company"`
	Dates        string   `json:"dates"`
	BulletPoints []string `json:"bullet_points"`
}

// Volunteer is one volunteer entry.
type Volunteer struct {
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Dates        string   `json:"dates"`
	BulletPoints []string `json:"bullet_points"`
}

// DefaultSettings returns the settings for a local LM Studio install.
func DefaultSettings() GenerationSettings {
	return GenerationSettings{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Default returns the placeholder profile written on first run.
func Default() Profile {
	return Profile{
		GenerationSettings: DefaultSettings(),
		PersonalInfo: PersonalInfo{
			FullName:       "Your Full Name",
			Email:          "your.email@example.com",
			Phone:          "(555) 123-4567",
			LinkedIn:       "https://linkedin.com/in/yourprofile",
			Location:       "City, State",
			Field:          "Your Professional Field",
			Degree:         "Your Degree",
			Major:          "Your Major",
			School:         "Your University",
			GraduationYear: "2023",
			DegreeStatus:   StatusCompleted,
		},
		Skills:     []string{"Skill 1", "Skill 2", "Skill 3", "Skill 4", "Skill 5", "Skill 6", "Skill 7", "Skill 8"},
		Coursework: []string{"Course 1", "Course 2", "Course 3", "Course 4", "Course 5", "Course 6"},
		Experience: []Experience{
			{
				JobTitle: "Job Title 1",
				Company:  "Company 1",
				Dates:    "Start Date - End Date",
				BulletPoints: []string{
					"Achievement or responsibility 1",
					"Achievement or responsibility 2",
					"Achievement or responsibility 3",
				},
			},
			{
				JobTitle: "Job Title 2",
				Company:  "Company 2",
				Dates:    "Start Date - End Date",
				BulletPoints: []string{
					"Achievement or responsibility 1",
					"Achievement or responsibility 2",
					"Achievement or responsibility 3",
				},
			},
		},
		Volunteer: []Volunteer{
			{
				Title:        "Volunteer Title 1",
				Organization: "Volunteer Organization 1",
				Dates:        "Start Date - End Date",
				BulletPoints: []string{
					"Volunteer responsibility or achievement 1",
					"Volunteer responsibility or achievement 2",
					"Volunteer responsibility or achievement 3",
				},
			},
		},
	}
}

// fillSettingDefaults replaces zero settings with defaults, field by field.
func fillSettingDefaults(s GenerationSettings) GenerationSettings {
	d := DefaultSettings()
	if s.BaseURL == "" {
		s.BaseURL = d.BaseURL
	}
	if s.Model == "" {
		s.Model = d.Model
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = d.MaxTokens
	}
	return s
}

// normalize replaces nil sequences with empty ones so files never carry null.
func normalize(p Profile) Profile {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Coursework == nil {
		p.Coursework = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Volunteer == nil {
		p.Volunteer = []Volunteer{}
	}
	for i := range p.Experience {
		if p.Experience[i].BulletPoints == nil {
			p.Experience[i].BulletPoints = []string{}
		}
	}
	for i := range p.Volunteer {
		if p.Volunteer[i].BulletPoints == nil {
			p.Volunteer[i].BulletPoints = []string{}
		}
	}
	return p
}
