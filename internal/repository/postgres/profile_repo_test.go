package postgres

import (
	"encoding/json"
	"testing"
	"time"

	"profolio-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func sampleProfile() *domain.Profile {
	now := time.Now()
	return &domain.Profile{
		UID:      "uid-1",
		Username: "adalovelace",
		Name:     "Ada Lovelace",
		Title:    "Aspiring Developer",
		Skills:   []string{"Go", "Rust"},
		Education: []domain.Education{
			{Institution: "University of London", Degree: "BSc", Field: "Mathematics", Period: "1832-1835"},
		},
		Experience: []domain.Experience{
			{Company: "Analytical Engine", Title: "Programmer", Duration: "1842-1843", Description: "First program"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// The pool runs with QueryExecModeSimpleProtocol, where every argument is
// encoded in text format with no parameter OID from the server. Each value
// the profile writes pass to Exec must have an encode plan under exactly
// those conditions, or Create/Update fail at runtime. This replays that
// conversion for the full argument lists.
func TestProfileWriteArgsEncodeUnderSimpleProtocol(t *testing.T) {
	m := pgtype.NewMap()
	profile := sampleProfile()

	for name, build := range map[string]func(*domain.Profile) ([]any, error){
		"insert": insertArgs,
		"update": updateArgs,
	} {
		t.Run(name, func(t *testing.T) {
			args, err := build(profile)
			assert.NoError(t, err)

			for i, arg := range args {
				_, err := m.Encode(0, pgx.TextFormatCode, arg, nil)
				assert.NoError(t, err, "argument %d (%T) has no simple-protocol encode plan", i+1, arg)
			}
		})
	}
}

func TestMarshalSectionsRendersJSONArrays(t *testing.T) {
	t.Run("Entries survive the round trip in order", func(t *testing.T) {
		profile := sampleProfile()
		eduJSON, expJSON, err := marshalSections(profile)
		assert.NoError(t, err)

		var education []domain.Education
		assert.NoError(t, json.Unmarshal([]byte(eduJSON), &education))
		assert.Equal(t, profile.Education, education)

		var experience []domain.Experience
		assert.NoError(t, json.Unmarshal([]byte(expJSON), &experience))
		assert.Equal(t, profile.Experience, experience)
	})

	t.Run("Nil sections become empty arrays, never null", func(t *testing.T) {
		eduJSON, expJSON, err := marshalSections(&domain.Profile{UID: "uid-1"})
		assert.NoError(t, err)
		assert.Equal(t, "[]", eduJSON)
		assert.Equal(t, "[]", expJSON)
	})
}
