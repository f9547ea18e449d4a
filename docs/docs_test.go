package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type document struct {
	BasePath    string                                `json:"basePath"`
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

func readDocument(t *testing.T) (string, document) {
	t.Helper()
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return raw, doc
}

var (
	routeAnnotation = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)
	typeAnnotation  = regexp.MustCompile(`(?:body|data=|\{object\})\s*((?:dto|models)\.\w+)`)
	definitionRef   = regexp.MustCompile(`#/definitions/([\w.]+)`)
)

func TestDocumentMatchesControllerAnnotations(t *testing.T) {
	_, doc := readDocument(t)
	assert.Equal(t, "/api", doc.BasePath)

	files, err := filepath.Glob(filepath.Join("..", "internal", "app", "controllers", "*_controller.go"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		src, err := os.ReadFile(file)
		require.NoError(t, err)

		for _, m := range routeAnnotation.FindAllStringSubmatch(string(src), -1) {
			path, method := m[1], strings.ToLower(m[2])
			require.Contains(t, doc.Paths, path, "%s documents %s", filepath.Base(file), path)
			assert.Contains(t, doc.Paths[path], method, "%s %s", method, path)
		}
		for _, m := range typeAnnotation.FindAllStringSubmatch(string(src), -1) {
			assert.Contains(t, doc.Definitions, m[1], "%s references %s", filepath.Base(file), m[1])
		}
	}
}

func TestDocumentReferencesResolve(t *testing.T) {
	raw, doc := readDocument(t)

	for _, m := range definitionRef.FindAllStringSubmatch(raw, -1) {
		assert.Contains(t, doc.Definitions, m[1])
	}
}

func TestRegisterBodiesHaveSchemas(t *testing.T) {
	_, doc := readDocument(t)

	bodies := map[string]string{
		"/auth/register":     "dto.RegisterRequest",
		"/students/register": "dto.RegisterStudentRequest",
		"/parents/register":  "dto.RegisterParentRequest",
		"/schools/register":  "dto.RegisterSchoolRequest",
	}
	for path, definition := range bodies {
		var op struct {
			Parameters []struct {
				In     string `json:"in"`
				Schema struct {
					Ref string `json:"$ref"`
				} `json:"schema"`
			} `json:"parameters"`
		}
		require.NoError(t, json.Unmarshal(doc.Paths[path]["post"], &op), path)
		require.Len(t, op.Parameters, 1, path)
		assert.Equal(t, "body", op.Parameters[0].In)
		assert.Equal(t, "#/definitions/"+definition, op.Parameters[0].Schema.Ref)
	}
}
