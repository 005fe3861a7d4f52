package gosolve

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall runs one tool by name. Every tool takes the raw equation
// text as "equation" and an optional "unknown" (default "x"); "solve"
// also accepts "lang" and "evaluate" requires "value".
func HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	optString := func(key, def string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getString(key)
	}
	// getEquation reads and normalizes the common parameters.
	getEquation := func() (*Equation, string, string, error) {
		raw, err := getString("equation")
		if err != nil {
			return nil, "", "", err
		}
		unknown, err := optString("unknown", DefaultUnknown)
		if err != nil {
			return nil, "", "", err
		}
		eq, err := Normalize(raw, unknown)
		if err != nil {
			return nil, "", "", err
		}
		return eq, raw, unknown, nil
	}

	switch req.Tool {
	case "normalize":
		eq, _, _, err := getEquation()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: eq, LaTeX: eq.LaTeX(), String: eq.String()}

	case "classify":
		eq, raw, unknown, err := getEquation()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		c := Classify(eq, raw, unknown)
		return ToolResponse{
			Result: map[string]interface{}{
				"classification": c,
				"model_name":     c.SuggestedModel.String(),
			},
			String: c.SuggestedModel.String(),
		}

	case "solve":
		eq, _, unknown, err := getEquation()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		lang, err := optString("lang", "en")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		tag := MatchLanguage(lang)
		res := Solve(eq, unknown, WithLanguage(tag))
		resp := ToolResponse{
			Result: res,
			LaTeX:  res.Solution.AnswerMarkup(unknown, tag),
			String: res.Solution.Answer(unknown, tag),
		}
		if res.Err != nil {
			resp.Error = res.Err.Error()
		}
		return resp

	case "evaluate":
		eq, _, unknown, err := getEquation()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		text, err := getString("value")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		value, err := ParseAnswer(text, unknown)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		ok, err := Check(eq, unknown, value)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{
			Result: map[string]interface{}{"correct": ok, "value": value.String()},
			String: fmt.Sprintf("%t", ok),
		}

	case "tool_spec":
		return ToolResponse{String: ToolSpec()}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ToolSpec returns the JSON schema of every tool HandleToolCall serves.
func ToolSpec() string {
	common := map[string]string{"equation": "string", "unknown": "string"}
	with := func(extra map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range common {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}
	tools := []map[string]interface{}{
		ts("normalize", "Turn free-form equation text into a canonical equation", []string{"equation"}, common),
		ts("classify", "Report grouping, fractions and unknown occurrences, and suggest a teaching model", []string{"equation"}, common),
		ts("solve", "Solve a first-degree equation step by step. Optional lang (en, es)", []string{"equation"}, with(map[string]string{"lang": "string"})),
		ts("evaluate", "Check whether a value such as \"3/2\" or \"x = 4\" satisfies the equation", []string{"equation", "value"}, with(map[string]string{"value": "string"})),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
