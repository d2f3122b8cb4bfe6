package payload

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/model"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *time.Time
		wantErr bool
	}{
		{name: "calendar date", input: `{"from":"2020-01-02"}`, want: ptr(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC))},
		{name: "rfc3339", input: `{"from":"2020-01-02T10:00:00+02:00"}`, want: ptr(time.Date(2020, 1, 2, 8, 0, 0, 0, time.UTC))},
		{name: "empty string", input: `{"from":""}`},
		{name: "null", input: `{"from":null}`},
		{name: "missing", input: `{}`},
		{name: "garbage", input: `{"from":"yesterday"}`, wantErr: true},
		{name: "number", input: `{"from":12}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ExperienceRequest
			err := json.Unmarshal([]byte(tt.input), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			got := req.From.Ptr()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v", got)
		})
	}
}

func TestNewProfileResponse_WireShape(t *testing.T) {
	userID := bson.NewObjectID()
	profile := &model.Profile{
		ID:         bson.NewObjectID(),
		UserID:     userID,
		Department: "Eng",
		Location:   "Paris",
		Status:     "Dev",
		Education: []model.Education{{
			ID:           bson.NewObjectID(),
			Institution:  "MIT",
			Degree:       "BSc",
			FieldOfStudy: "CS",
		}},
		Social: model.Social{Twitter: "https://twitter.com/ada"},
	}

	data, err := json.Marshal(NewProfileResponse(profile))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, userID.Hex(), decoded["user"])
	assert.Equal(t, []any{}, decoded["experience"])
	assert.NotContains(t, decoded, "bio")
	assert.NotContains(t, decoded, "githubusername")
	assert.Equal(t, map[string]any{"twitter": "https://twitter.com/ada"}, decoded["social"])

	education := decoded["education"].([]any)[0].(map[string]any)
	assert.Equal(t, "CS", education["fieldOfStudy"])
	assert.NotContains(t, education, "from")
}

func ptr(t time.Time) *time.Time {
	return &t
}
