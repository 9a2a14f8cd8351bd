// Package payload validates JSON request bodies against embedded JSON
// Schemas before they are decoded into Go structs.
package payload

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/techikansh/Kanban-Board/internal/app/system/limits"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

// Schema names a request body shape.
type Schema string

const (
	ProjectCreate Schema = "project_create"
	ProjectUpdate Schema = "project_update"
	MemberAdd     Schema = "member_add"
	TaskCreate    Schema = "task_create"
	TaskUpdate    Schema = "task_update"
	TaskMove      Schema = "task_move"
	Register      Schema = "register"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = limits.MaxJSONBody

var ErrInvalidPayload = errors.New("invalid request body")

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	compileOnce sync.Once
	compiled    map[Schema]*jsonschema.Schema
	compileErr  error
)

func load() (map[Schema]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		entries, err := schemaFS.ReadDir("schemas")
		if err != nil {
			compileErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		names := make([]Schema, 0, len(entries))
		for _, e := range entries {
			b, err := schemaFS.ReadFile("schemas/" + e.Name())
			if err != nil {
				compileErr = err
				return
			}
			name := Schema(strings.TrimSuffix(e.Name(), ".json"))
			if err := compiler.AddResource(schemaURL(name), bytes.NewReader(b)); err != nil {
				compileErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
			names = append(names, name)
		}
		out := make(map[Schema]*jsonschema.Schema, len(names))
		for _, name := range names {
			s, err := compiler.Compile(schemaURL(name))
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			out[name] = s
		}
		compiled = out
	})
	return compiled, compileErr
}

func schemaURL(name Schema) string {
	return "mem://kanban/" + string(name) + ".json"
}

// MustLoad compiles every embedded schema, panicking on error. Called at
// startup so a broken schema fails fast.
func MustLoad() {
	if _, err := load(); err != nil {
		panic(err)
	}
}

// Decode reads r's body, validates it against schema and unmarshals it into
// dst. Validation failures come back as *models.ValidationError whose Kind
// is ErrInvalidPayload.
func Decode(r *http.Request, schema Schema, dst any) error {
	schemas, err := load()
	if err != nil {
		return err
	}
	s, ok := schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return invalid("body", "could not read body")
	}
	if len(body) > MaxBodyBytes {
		return invalid("body", "too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return invalid("body", "required")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return invalid("body", "malformed JSON")
	}

	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		fields := map[string]string{}
		collect(ve, fields)
		return &models.ValidationError{Kind: ErrInvalidPayload, Fields: fields}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return invalid("body", err.Error())
	}
	return nil
}

func invalid(field, msg string) error {
	return &models.ValidationError{Kind: ErrInvalidPayload, Fields: map[string]string{field: msg}}
}

func collect(err *jsonschema.ValidationError, fields map[string]string) {
	if len(err.Causes) == 0 {
		key := pointerToField(err.InstanceLocation)
		if _, seen := fields[key]; !seen {
			fields[key] = err.Message
		}
		return
	}
	for _, cause := range err.Causes {
		collect(cause, fields)
	}
}

func pointerToField(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return "body"
	}
	return strings.ReplaceAll(ptr, "/", ".")
}
