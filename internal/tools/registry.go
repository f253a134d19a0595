package tools

import (
	"context"
	"encoding/json"
	"log"
)

// Result is the uniform outcome of a tool invocation: a display-ready
// message plus a flag for callers that want to branch. Domain failures are
// results, not errors — the calling agent relays the message and the
// conversation continues.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToolInfo holds the name and description of a tool, in the shape an
// agent integration consumes to decide which tool to call.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Tool is a named operation an external agent can invoke. Run returns the
// user-facing message on success; any error becomes a failure Result.
type Tool struct {
	Name        string
	Description string
	Run         func(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry dispatches invocations by tool name. Registration order is
// preserved for List, since the agent prompt enumerates tools in order.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) List() []ToolInfo {
	infos := make([]ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, ToolInfo{Name: name, Description: r.tools[name].Description})
	}
	return infos
}

// Invoke runs the named tool and normalizes every outcome into a Result.
// A panic inside a tool is caught here and reported as a generic failure,
// so a corrupted call can never take the session down.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("tool %s panicked: %v", name, rec)
			res = Result{Success: false, Message: "operation failed, please try again"}
		}
	}()

	tool, ok := r.tools[name]
	if !ok {
		return Result{Success: false, Message: "unknown tool: " + name}
	}

	message, err := tool.Run(ctx, args)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: message}
}
