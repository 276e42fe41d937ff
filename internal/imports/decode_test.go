package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobapp/internal/shared/apperr"
)

const parsedJSON = `{
  "personal_info": {
    "full_name": "Jane Doe",
    "email": "jane@example.com",
    "field": "Backend Engineer",
    "degree": "BSc",
    "major": "Computer Science",
    "school": "UT Austin",
    "graduation_year": 2020,
    "degree_status": "Completed"
  },
  "skills": ["Go", "PostgreSQL"],
  "experience": [
    {"job_title": "Engineer", "company": "Initech", "dates": "2021-2024", "bullet_points": ["Rebuilt billing"]}
  ]
}`

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "prose around", raw: "Sure! Here is the JSON:\n{\"a\":{\"b\":2}}\nLet me know.", want: `{"a":{"b":2}}`},
		{name: "code fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "no object", raw: "I could not parse this resume.", wantErr: true},
		{name: "broken object", raw: "here {\"a\": } there", wantErr: true},
		{name: "empty", raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONObject(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.InvalidModelOutput, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeResumeFromProse(t *testing.T) {
	p, err := decodeResume("Here is the parsed resume:\n\n" + parsedJSON + "\n\nHope this helps!")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", p.PersonalInfo.FullName)
	assert.Equal(t, "2020", p.PersonalInfo.GraduationYear)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, p.Skills)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Initech", p.Experience[0].Company)
	assert.NotNil(t, p.Coursework)
	assert.Empty(t, p.Coursework)
	assert.NotNil(t, p.Volunteer)
	assert.Empty(t, p.Volunteer)
}

func TestDecodeResumeSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing skills", raw: `{"personal_info": {}, "experience": []}`},
		{name: "missing experience", raw: `{"personal_info": {}, "skills": []}`},
		{name: "skills not strings", raw: `{"personal_info": {}, "skills": [1, 2], "experience": []}`},
		{name: "personal info not object", raw: `{"personal_info": "Jane", "skills": [], "experience": []}`},
		{name: "top level array", raw: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeResume(tt.raw)
			require.Error(t, err)
			assert.Equal(t, apperr.InvalidModelOutput, apperr.KindOf(err))
		})
	}
}

func TestDecodeResumeAcceptsNulls(t *testing.T) {
	p, err := decodeResume(`{"personal_info": {"full_name": null, "graduation_year": null}, "skills": [], "experience": [], "volunteer": null}`)
	require.NoError(t, err)
	assert.Empty(t, p.PersonalInfo.FullName)
	assert.NotNil(t, p.Volunteer)
}
