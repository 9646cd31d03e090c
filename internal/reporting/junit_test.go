package reporting

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagecrit/pagecrit/internal/aggregate"
	"github.com/pagecrit/pagecrit/internal/models"
)

func TestConvertToJUnit(t *testing.T) {
	results := []models.EvaluationResult{
		{SourceID: "Design Critic", Score: models.Float64Ptr(8.5)},
		{SourceID: "Accessibility Advocate", Score: models.Float64Ptr(4.0), Issues: []string{"Low contrast"}, Assessment: "Needs contrast work"},
		{SourceID: "Mobile User"},
	}
	summary, err := aggregate.Aggregate(results)
	require.NoError(t, err)

	suites := ConvertToJUnit("homepage-test", summary, results, 6.0)

	require.Equal(t, 3, suites.Tests)
	require.Equal(t, 1, suites.Failures)
	require.Len(t, suites.TestSuites, 1)

	suite := suites.TestSuites[0]
	require.Equal(t, "homepage-test", suite.Name)
	require.Equal(t, 1, suite.Skipped)
	require.Len(t, suite.TestCases, 3)

	require.Nil(t, suite.TestCases[0].Failure)

	failed := suite.TestCases[1]
	require.NotNil(t, failed.Failure)
	require.Contains(t, failed.Failure.Message, "score 4.0 below threshold 6.0")
	require.Contains(t, failed.Failure.Body, "Needs contrast work")
	require.Contains(t, failed.Failure.Body, "- Low contrast")

	require.NotNil(t, suite.TestCases[2].Skipped)
}

func TestWriteJUnitFile(t *testing.T) {
	results := []models.EvaluationResult{{SourceID: "A", Score: models.Float64Ptr(9.0)}}
	summary, err := aggregate.Aggregate(results)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "junit.xml")
	require.NoError(t, WriteJUnitFile(path, ConvertToJUnit("batch", summary, results, 6.0)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "<?xml")

	var parsed JUnitTestSuites
	require.NoError(t, xml.Unmarshal(data, &parsed))
	require.Equal(t, 1, parsed.Tests)
	require.Equal(t, 0, parsed.Failures)
}
