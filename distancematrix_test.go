package mapsapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matrixElementXML(status string, distance, duration int) string {
	if status != StatusOK {
		return fmt.Sprintf(`<element><status>%s</status></element>`, status)
	}
	return fmt.Sprintf(`<element>
		<status>OK</status>
		<duration><value>%d</value><text>%d secs</text></duration>
		<distance><value>%d</value><text>%d m</text></distance>
	</element>`, duration, duration, distance, distance)
}

// matrixFixture builds a 3x3 response. distances[i][j] < 0 marks a
// ZERO_RESULTS cell.
func matrixFixture(addresses []string, distances [3][3]int) string {
	var rows strings.Builder
	for i := 0; i < 3; i++ {
		rows.WriteString("<row>")
		for j := 0; j < 3; j++ {
			if distances[i][j] < 0 {
				rows.WriteString(matrixElementXML("ZERO_RESULTS", 0, 0))
			} else {
				rows.WriteString(matrixElementXML(StatusOK, distances[i][j], distances[i][j]/20))
			}
		}
		rows.WriteString("</row>")
	}

	var labels strings.Builder
	for _, a := range addresses {
		labels.WriteString(fmt.Sprintf("<origin_address>%s</origin_address>", a))
	}
	for _, a := range addresses {
		labels.WriteString(fmt.Sprintf("<destination_address>%s</destination_address>", a))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<DistanceMatrixResponse>
 <status>OK</status>
 %s
 %s
</DistanceMatrixResponse>`, labels.String(), rows.String())
}

func TestDistanceMatrixScenario(t *testing.T) {
	addresses := []string{"Tel-Aviv", "Jerusalem", "Beer-Sheva"}
	distances := [3][3]int{
		{0, 67000, 103000},
		{66000, 0, 97000},
		{104000, 98000, 0},
	}

	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/distancematrix/xml", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Write([]byte(matrixFixture(addresses, distances)))
	})

	locations := []Location{Address("Tel-Aviv"), Address("Jerusalem"), Address("Beer-Sheva")}
	doc, err := client.DistanceMatrix(context.Background(), &DistanceMatrixRequest{
		Origins:      locations,
		Destinations: locations,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Tel-Aviv|Jerusalem|Beer-Sheva"}, gotQuery["origins"])
	assert.Equal(t, []string{"Tel-Aviv|Jerusalem|Beer-Sheva"}, gotQuery["destinations"])

	m, err := ParseMatrix(doc, MatrixDistance)
	require.NoError(t, err)

	assert.Equal(t, addresses, m.Origins)
	assert.Equal(t, addresses, m.Destinations)
	require.Len(t, m.Values, 3)
	for i := 0; i < 3; i++ {
		require.Len(t, m.Values[i], 3)
		for j := 0; j < 3; j++ {
			assert.Equal(t, float64(distances[i][j]), m.Values[i][j], "cell (%d,%d)", i, j)
		}
	}
}

func TestParseMatrixSingleMissingCell(t *testing.T) {
	addresses := []string{"A", "B", "C"}
	distances := [3][3]int{
		{0, 100, 200},
		{100, 0, -1}, // (1,2) has no result
		{200, 300, 0},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(matrixFixture(addresses, distances)))
	})

	locations := []Location{Address("A"), Address("B"), Address("C")}
	doc, err := client.DistanceMatrix(context.Background(), &DistanceMatrixRequest{
		Origins:      locations,
		Destinations: locations,
	})
	require.NoError(t, err)

	m, err := ParseMatrix(doc, MatrixDistance)
	require.NoError(t, err)

	missing := 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if m.IsMissing(i, j) {
				missing++
				assert.Equal(t, 1, i)
				assert.Equal(t, 2, j)
			}
		}
	}
	assert.Equal(t, 1, missing)
}

func TestParseMatrixDuration(t *testing.T) {
	addresses := []string{"A", "B", "C"}
	distances := [3][3]int{
		{0, 2000, 4000},
		{2000, 0, 6000},
		{4000, 6000, 0},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(matrixFixture(addresses, distances)))
	})

	locations := []Location{Address("A"), Address("B"), Address("C")}
	doc, err := client.DistanceMatrix(context.Background(), &DistanceMatrixRequest{
		Origins:      locations,
		Destinations: locations,
	})
	require.NoError(t, err)

	m, err := ParseMatrix(doc, MatrixDuration)
	require.NoError(t, err)
	assert.Equal(t, 100.0, m.Values[0][1]) // 2000/20 in the fixture
}

func TestDistanceMatrixValidation(t *testing.T) {
	client := NewClient(WithQuiet(true))

	var vErr *ValidationError
	_, err := client.DistanceMatrix(context.Background(), &DistanceMatrixRequest{
		Destinations: []Location{Address("B")},
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "origins", vErr.Field)

	_, err = client.DistanceMatrix(context.Background(), &DistanceMatrixRequest{
		Origins:      []Location{Address("A")},
		Destinations: []Location{{}},
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "destinations[0]", vErr.Field)
}

func TestParseMatrixBadValueKind(t *testing.T) {
	_, err := ParseMatrix(&DistanceMatrixDocument{}, MatrixValue("speed"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}
