package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/cssinterop/pkg/interop"
	"github.com/gnana997/cssinterop/pkg/parser"
	"github.com/gnana997/cssinterop/pkg/runner"
)

// transformResponse is the JSON body of a transform_code result.
type transformResponse struct {
	Code         string `json:"code"`
	Changed      bool   `json:"changed"`
	Replacements int    `json:"replacements"`
	ShimForm     string `json:"shim_form,omitempty"`
	Skipped      string `json:"skipped,omitempty"`
}

// bindingInfo is one entry of an inspect_bindings result.
type bindingInfo struct {
	LocalName   string `json:"local_name"`
	Target      string `json:"target"`
	ModuleKind  string `json:"module_kind"`
	Description string `json:"description"`
}

type inspectResponse struct {
	Filename string        `json:"filename"`
	Denied   bool          `json:"denied"`
	Bindings []bindingInfo `json:"bindings"`
}

func (s *Server) handleTransformCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, errResult := s.process(req)
	if errResult != nil {
		return errResult, nil
	}

	return jsonResult(transformResponse{
		Code:         string(out.Output),
		Changed:      out.Changed,
		Replacements: out.Replacements,
		ShimForm:     string(out.ShimForm),
		Skipped:      string(out.Skipped),
	})
}

func (s *Server) handleInspectBindings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, errResult := s.process(req)
	if errResult != nil {
		return errResult, nil
	}

	resp := inspectResponse{
		Filename: out.Path,
		Denied:   out.Skipped == interop.SkipDenied,
		Bindings: make([]bindingInfo, 0, len(out.Bindings)),
	}
	for _, b := range out.Bindings {
		resp.Bindings = append(resp.Bindings, bindingInfo{
			LocalName:   b.LocalName,
			Target:      b.Target.String(),
			ModuleKind:  b.ModuleKind.String(),
			Description: b.Describe(),
		})
	}
	return jsonResult(resp)
}

// process runs the transform for a tool request. Invalid input is reported
// as a tool error result, never as a protocol error.
func (s *Server) process(req mcp.CallToolRequest) (*runner.Outcome, *mcp.CallToolResult) {
	code, err := req.RequireString("code")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	filename := req.GetString("filename", defaultFilename)
	if filename == "" {
		filename = defaultFilename
	}


	var out *runner.Outcome
	if name := req.GetString("language", ""); name != "" {
		lang, err := parser.LanguageFromName(name)
		if err != nil {
			return nil, mcp.NewToolResultError(err.Error())
		}
		out, err = s.processor.ProcessSourceAs(filename, []byte(code), lang)
	} else {
		out, err = s.processor.ProcessSource(filename, []byte(code))
	}
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to transform %s: %v", filename, err))
	}
	return out, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
