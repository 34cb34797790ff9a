package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyunomas/bytedupes/internal/engine"
	"github.com/soyunomas/bytedupes/internal/entities"
)

func TestWriteText(t *testing.T) {
	clusters := []entities.Cluster{
		{Size: 11, Paths: []string{"/r/a.txt", "/r/b.txt"}},
		{Size: 40, Paths: []string{"/r/x", "/r/y", "/r/z"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, clusters, entities.ScanStats{Files: 7, Bytes: 3 << 20}))

	expected := "Matching Files:\n" +
		"[ /r/a.txt,\n  /r/b.txt ]\n\n" +
		"[ /r/x,\n  /r/y,\n  /r/z ]\n\n" +
		"-- Stats --\n" +
		"Number of files scanned: 7\n" +
		"Total data compared:     3.00MB\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteText_NoClusters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, nil, entities.ScanStats{Files: 2, Bytes: 20}))

	assert.Equal(t, "Matching Files:\n"+
		"-- Stats --\n"+
		"Number of files scanned: 2\n"+
		"Total data compared:     0.00MB\n", buf.String())
}

func TestClusterID(t *testing.T) {
	a := entities.Cluster{Paths: []string{"/a", "/b"}}
	b := entities.Cluster{Paths: []string{"/a", "/b"}}
	c := entities.Cluster{Paths: []string{"/a/", "b"}}

	assert.Len(t, ClusterID(a), 16)
	assert.Equal(t, ClusterID(a), ClusterID(b))
	assert.NotEqual(t, ClusterID(a), ClusterID(c))
}

func TestBuildAndWriteJSON(t *testing.T) {
	res := &engine.Result{
		Root: "/r",
		Clusters: []entities.Cluster{
			{Size: 5000, Paths: []string{"/r/a", "/r/b", "/r/c"}},
		},
		Scan:            entities.ScanStats{Files: 4, Bytes: 3 << 20},
		DuplicatesCount: 2,
		ReclaimableSize: 10000,
		Comparisons:     2,
		Duration:        1500 * time.Millisecond,
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rep := Build(res, now)
	assert.Equal(t, 3.0, rep.Summary.TotalMB)
	assert.Equal(t, "10.0 kB", rep.Summary.BytesReclaimHuman)
	assert.Equal(t, "/r", rep.Metadata.ScannedPath)
	require.Len(t, rep.Clusters, 1)
	assert.Equal(t, "/r/a", rep.Clusters[0].Representative)
	assert.Equal(t, []string{"/r/b", "/r/c"}, rep.Clusters[0].Duplicates)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rep))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	summary := decoded["summary"].(map[string]any)
	assert.EqualValues(t, 4, summary["total_files_scanned"])
	assert.EqualValues(t, 1, summary["total_clusters"])
	assert.Equal(t, "1.5s", decoded["metadata"].(map[string]any)["duration_human"])
}

func TestBuild_EmptyClustersEncodeAsArray(t *testing.T) {
	rep := Build(&engine.Result{}, time.Time{})
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rep))
	assert.Contains(t, buf.String(), `"clusters": []`)
}

func TestRoundMB(t *testing.T) {
	tests := []struct {
		in       int64
		expected float64
	}{
		{0, 0},
		{1 << 20, 1},
		{3 << 19, 1.5},
		{1<<20 + 5243, 1.01},
		{1<<20 + 5242, 1},
		{10 << 30, 10240},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, roundMB(tt.in), "input %d", tt.in)
	}
}
