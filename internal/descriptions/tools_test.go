package descriptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAllToolNames(t *testing.T) {
	assert.Equal(t, []string{
		ToolClassifyText,
		ToolExtractDates,
		ToolInspectFile,
		ToolReadFile,
		ToolSearchDirectory,
		ToolServerInfo,
		ToolValidateFile,
	}, GetAllToolNames())
}

func TestGetToolDescription(t *testing.T) {
	for _, name := range GetAllToolNames() {
		assert.NotEmpty(t, GetToolDescription(name), name)
		assert.NotContains(t, Summary(name), "\n", name)
	}
	assert.Equal(t, "Tool description not available", GetToolDescription("pdf_unknown"))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Find dates in free text and normalize them to YYYY-MM-DD.", Summary(ToolExtractDates))
	assert.Equal(t, "Tool description not available", Summary("pdf_unknown"))
}
