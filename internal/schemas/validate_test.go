package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_StartResponse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "with question", doc: `{"success": true, "question": "Tell me about yourself", "session_id": "s1"}`},
		{name: "null question", doc: `{"success": false, "question": null}`},
		{name: "missing success", doc: `{"question": "hi"}`, wantErr: true},
		{name: "question wrong type", doc: `{"success": true, "question": 42}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(StartResponse, []byte(tt.doc))
			if tt.wantErr {
				require.Error(t, err)
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
				assert.NotEmpty(t, validationErr.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_AnswerResponse(t *testing.T) {
	assert.NoError(t, Validate(AnswerResponse, []byte(`{"success": true, "feedback": "Good", "score": 82, "question": "Next?"}`)))
	assert.NoError(t, Validate(AnswerResponse, []byte(`{"success": true, "score": 7.5}`)))
	assert.Error(t, Validate(AnswerResponse, []byte(`{"success": true, "score": "82"}`)))
}

func TestValidate_EndResponse(t *testing.T) {
	assert.NoError(t, Validate(EndResponse, []byte(`{}`)))
	assert.NoError(t, Validate(EndResponse, []byte(`{"success": true, "report": {"overall_assessment": "ok"}, "summary": {}, "pdf_filename": "r.pdf"}`)))
	assert.Error(t, Validate(EndResponse, []byte(`{"report": "not an object"}`)))
}

func TestValidate_BuiltResume(t *testing.T) {
	assert.NoError(t, Validate(BuiltResume, []byte(`{"name": "Ada", "skills": ["Go"], "experience": [{"role": "Engineer", "company": "Acme"}]}`)))
	assert.Error(t, Validate(BuiltResume, []byte(`{"skills": ["Go"]}`)))
	assert.Error(t, Validate(BuiltResume, []byte(`{"name": "Ada", "hobbies": ["chess"]}`)))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "schema not found")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(StartResponse, []byte(`{not json`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
