package services

import (
	"beat-planning-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrolledCSVQuotesAndBlanks(t *testing.T) {
	sps := []domain.Salesperson{
		{ID: "sp_1", Name: "Jane, Q.", Contact: "", CreatedAt: time.Now()},
		{
			ID: "sp_2", Name: `Ravi "R" K`, Contact: "line1\nline2",
			StartLat: domain.Ptr(12.97), StartLng: domain.Ptr(77.59), StartName: "Depot",
		},
	}

	out, err := EnrolledCSV(sps)
	require.NoError(t, err)

	want := "id,name,contact,start_lat,start_lng,starting_point\n" +
		"sp_1,\"Jane, Q.\",,,,\n" +
		"sp_2,\"Ravi \"\"R\"\" K\",\"line1\nline2\",12.97,77.59,Depot\n"
	assert.Equal(t, want, string(out))
}

func TestAssignmentsCSV(t *testing.T) {
	sps := []domain.Salesperson{
		{ID: "sp_1", StartName: "Koramangala, Block 5"},
		{ID: "sp_2"},
	}

	out, err := AssignmentsCSV(sps)
	require.NoError(t, err)
	assert.Equal(t, "salesperson_id,starting_point\nsp_1,\"Koramangala, Block 5\"\nsp_2,\n", string(out))
}

func TestToCSVHeaderOnly(t *testing.T) {
	out, err := ToCSV([]string{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(out))
}
