// Package binder turns one declarative operation (description, request
// shape, invocation target) into a single flat MCP tool. The flat schema is
// computed once at bind time; each call validates its arguments, rebuilds
// the structured call, and runs the target through the resilient invoker.
package binder

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"

	"github.com/decocms/mcps/internal/errors"
	"github.com/decocms/mcps/internal/invoke"
	"github.com/decocms/mcps/internal/reqschema"
)

// InvokeFunc is the single adapter signature every underlying platform
// call is wrapped in once, at registration time.
type InvokeFunc func(ctx context.Context, call reqschema.StructuredCall) invoke.Result

// Operation is one declarative catalog entry pairing a tool identity with
// its request shape and invocation target.
type Operation struct {
	// ID is the stable tool identifier, e.g. "commerce_get_product".
	ID string

	// Description is surfaced to tool callers.
	Description string

	// Shape is the four-part request description for the operation.
	Shape reqschema.Shape

	// ReadOnly hints that the operation does not modify platform state.
	ReadOnly bool

	// Destructive hints that the operation may delete platform state.
	Destructive bool

	// Invoke executes the reconstructed call against the platform.
	Invoke InvokeFunc
}

// Validate checks that the operation is complete enough to bind.
func (op Operation) Validate() error {
	if strings.TrimSpace(op.ID) == "" {
		return fmt.Errorf("operation ID cannot be empty")
	}
	if strings.TrimSpace(op.Description) == "" {
		return fmt.Errorf("operation %q: description cannot be empty", op.ID)
	}
	if op.Invoke == nil {
		return fmt.Errorf("operation %q: invoke function cannot be nil", op.ID)
	}
	return nil
}

// Binder binds catalog operations into MCP tools backed by a shared
// resilient invoker.
// NewBinder should be used to create instances of Binder.
type Binder struct {
	logger  hclog.Logger
	invoker *invoke.Invoker
}

// NewBinder creates a Binder that routes every bound call through invoker.
func NewBinder(logger hclog.Logger, invoker *invoke.Invoker) (*Binder, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if invoker == nil {
		return nil, fmt.Errorf("invoker cannot be nil")
	}

	return &Binder{
		logger:  logger.Named("binder"),
		invoker: invoker,
	}, nil
}

// Bind flattens the operation's shape into the tool's advertised parameter
// schema and returns the tool plus its handler. The schema is compiled for
// validation exactly once, here.
func (b *Binder) Bind(op Operation) (mcp.Tool, server.ToolHandlerFunc, error) {
	if err := op.Validate(); err != nil {
		return mcp.Tool{}, nil, err
	}

	doc := reqschema.Flatten(op.Shape).JSONSchema()

	raw, err := json.Marshal(doc)
	if err != nil {
		return mcp.Tool{}, nil, fmt.Errorf("operation %q: failed to encode schema: %w", op.ID, err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return mcp.Tool{}, nil, fmt.Errorf("operation %q: failed to compile schema: %w", op.ID, err)
	}

	tool := mcp.NewToolWithRawSchema(op.ID, op.Description, raw)
	tool.Annotations = mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(op.ReadOnly),
		DestructiveHint: mcp.ToBoolPtr(op.Destructive),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return b.handle(ctx, op, compiled, req.GetArguments())
	}

	return tool, handler, nil
}

// handle executes one tool call: validate, unflatten, invoke, reshape.
func (b *Binder) handle(
	ctx context.Context,
	op Operation,
	compiled *gojsonschema.Schema,
	args map[string]any,
) (*mcp.CallToolResult, error) {
	if args == nil {
		args = map[string]any{}
	}

	validation, err := compiled.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", errors.ErrBadRequest, err)), nil
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, ve := range validation.Errors() {
			details = append(details, ve.String())
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", errors.ErrBadRequest, strings.Join(details, "; "))), nil
	}

	call := reqschema.Unflatten(args, op.Shape)

	invocationID := uuid.NewString()
	b.logger.Debug("invoking operation", "tool", op.ID, "invocation_id", invocationID)

	res := b.invoker.Do(ctx, func(ctx context.Context) invoke.Result {
		return op.Invoke(ctx, call)
	})
	if res.Err != nil {
		b.logger.Warn("operation failed", "tool", op.ID, "invocation_id", invocationID, "error", res.Err)
		return mcp.NewToolResultError(errorMessage(res.Err)), nil
	}

	payload := res.Data
	if isSequence(payload) {
		payload = map[string]any{"items": payload}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %s", err)), nil
	}

	return mcp.NewToolResultText(string(encoded)), nil
}

// isSequence reports whether the payload is an array-like value that needs
// the single-field items envelope. Raw byte payloads are not sequences for
// this purpose.
func isSequence(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case []byte, json.RawMessage:
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// errorMessage renders a failure for the caller: the error's own message
// when it has one, otherwise a JSON serialization of the error value.
func errorMessage(err error) string {
	var statusErr *invoke.StatusError
	if stderrors.As(err, &statusErr) && statusErr.Message == "" && statusErr.Body != nil {
		if encoded, mErr := json.Marshal(map[string]any{
			"status": statusErr.Status,
			"body":   statusErr.Body,
		}); mErr == nil {
			return string(encoded)
		}
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}

	if encoded, mErr := json.Marshal(err); mErr == nil && string(encoded) != "{}" {
		return string(encoded)
	}

	return fmt.Sprintf("%v", err)
}
