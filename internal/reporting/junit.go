package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/pagecrit/pagecrit/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one validation batch.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one perspective's evaluation.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a perspective scoring below the threshold.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks an unscored perspective.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit maps a validation batch to JUnit XML. Each result becomes a
// testcase: it fails when its score is below threshold (canonical 0–10
// scale) and is skipped when no score is present.
func ConvertToJUnit(name string, summary *models.AggregatedSummary, results []models.EvaluationResult, threshold float64) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      name,
		Tests:     summary.ResultCount,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "average_score", Value: FormatScore(summary.AverageScore)},
			{Name: "threshold", Value: fmt.Sprintf("%.1f", threshold)},
		},
	}

	for _, r := range results {
		tc := JUnitTestCase{
			Name:      r.SourceID,
			Classname: name,
		}

		switch {
		case r.Score == nil:
			suite.Skipped++
			tc.Skipped = &JUnitSkipped{Message: "no score produced"}
		case *r.Score < threshold:
			suite.Failures++
			body := r.Assessment
			for _, issue := range r.Issues {
				if body != "" {
					body += "\n"
				}
				body += "- " + issue
			}
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("score %.1f below threshold %.1f", *r.Score, threshold),
				Type:    "ScoreBelowThreshold",
				Body:    body,
			}
		}

		suite.TestCases = append(suite.TestCases, tc)
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnitFile serializes suites to path with the XML header.
func WriteJUnitFile(path string, suites *JUnitTestSuites) error {
	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	content := append([]byte(xml.Header), data...)
	content = append(content, '\n')

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing JUnit file: %w", err)
	}
	return nil
}
