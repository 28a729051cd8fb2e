package dialect

import (
	"encoding/json"
	"net/http"
	"testing"

	"mygrid/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sid = "s-1"

func post(path, body string) domain.Command {
	return domain.Command{Method: http.MethodPost, Path: "/session/" + sid + path, Header: http.Header{}, Body: []byte(body)}
}

func TestConverter_Passthrough(t *testing.T) {
	c := NewConverter(domain.DialectW3C, domain.DialectW3C)
	require.True(t, c.Passthrough())

	cmd := post("/execute/sync", `{"script":"return 1","args":[]}`)
	got, err := c.Request(sid, cmd)
	require.NoError(t, err)
	assert.Equal(t, cmd, got)

	resp := domain.CommandResponse{StatusCode: http.StatusTeapot, Body: []byte(`not json`)}
	gotResp, err := c.Response(sid, resp)
	require.NoError(t, err)
	assert.Equal(t, resp, gotResp)
}

func TestConverter_Request_W3CToLegacy(t *testing.T) {
	c := NewConverter(domain.DialectW3C, domain.DialectOSS)

	tests := []struct {
		name     string
		cmd      domain.Command
		wantPath string
		wantBody string
		wantErr  bool
	}{
		{
			name:     "execute_sync_renamed_and_element_args",
			cmd:      post("/execute/sync", `{"script":"arguments[0].click()","args":[{"`+ElementKeyW3C+`":"e-1"}]}`),
			wantPath: "/session/s-1/execute",
			wantBody: `{"script":"arguments[0].click()","args":[{"ELEMENT":"e-1"}]}`,
		},
		{
			name:     "execute_async_renamed",
			cmd:      post("/execute/async", `{"script":"cb()","args":[]}`),
			wantPath: "/session/s-1/execute_async",
			wantBody: `{"script":"cb()","args":[]}`,
		},
		{
			name:     "send_keys_text_to_value",
			cmd:      post("/element/e-1/value", `{"text":"ab"}`),
			wantPath: "/session/s-1/element/e-1/value",
			wantBody: `{"value":["a","b"]}`,
		},
		{
			name:     "timeouts_single",
			cmd:      post("/timeouts", `{"pageLoad":3000}`),
			wantPath: "/session/s-1/timeouts",
			wantBody: `{"type":"page load","ms":3000}`,
		},
		{
			name:    "timeouts_multiple_rejected",
			cmd:     post("/timeouts", `{"implicit":1,"script":2}`),
			wantErr: true,
		},
		{
			name:     "switch_window_handle_to_name",
			cmd:      post("/window", `{"handle":"w-2"}`),
			wantPath: "/session/s-1/window",
			wantBody: `{"name":"w-2"}`,
		},
		{
			name:     "find_element_untouched",
			cmd:      post("/element", `{"using":"css selector","value":"#x"}`),
			wantPath: "/session/s-1/element",
			wantBody: `{"using":"css selector","value":"#x"}`,
		},
		{
			name:    "body_not_json",
			cmd:     post("/url", `url=x`),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Request(sid, tt.cmd)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrTranslation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.JSONEq(t, tt.wantBody, string(got.Body))
		})
	}
}

func TestConverter_Request_GetPathRenames(t *testing.T) {
	toLegacy := NewConverter(domain.DialectW3C, domain.DialectOSS)
	got, err := toLegacy.Request(sid, domain.Command{Method: http.MethodGet, Path: "/session/s-1/window/handles"})
	require.NoError(t, err)
	assert.Equal(t, "/session/s-1/window_handles", got.Path)
	assert.Empty(t, got.Body)

	toW3C := NewConverter(domain.DialectOSS, domain.DialectW3C)
	got, err = toW3C.Request(sid, domain.Command{Method: http.MethodGet, Path: "/session/s-1/window_handle"})
	require.NoError(t, err)
	assert.Equal(t, "/session/s-1/window", got.Path)

	// DELETE /window closes the window in both dialects
	got, err = toLegacy.Request(sid, domain.Command{Method: http.MethodDelete, Path: "/session/s-1/window"})
	require.NoError(t, err)
	assert.Equal(t, "/session/s-1/window", got.Path)
}

func TestConverter_Request_LegacyToW3C(t *testing.T) {
	c := NewConverter(domain.DialectOSS, domain.DialectW3C)

	tests := []struct {
		name     string
		cmd      domain.Command
		wantBody string
		wantErr  bool
	}{
		{"locator_id", post("/element", `{"using":"id","value":"q"}`), `{"using":"css selector","value":"[id=\"q\"]"}`, false},
		{"locator_name", post("/elements", `{"using":"name","value":"user"}`), `{"using":"css selector","value":"*[name=\"user\"]"}`, false},
		{"locator_class", post("/element/e-1/element", `{"using":"class name","value":"btn-1"}`), `{"using":"css selector","value":".btn-1"}`, false},
		{"locator_class_escaped", post("/element", `{"using":"class name","value":"1a"}`), `{"using":"css selector","value":".\\1a"}`, false},
		{"locator_compound_class", post("/element", `{"using":"class name","value":"a b"}`), ``, true},
		{"locator_xpath_kept", post("/element", `{"using":"xpath","value":"//a"}`), `{"using":"xpath","value":"//a"}`, false},
		{"send_keys_value_to_text", post("/element/e-1/value", `{"value":["h","i"]}`), `{"text":"hi","value":["h","i"]}`, false},
		{"send_keys_bad_value", post("/element/e-1/value", `{"value":[1]}`), ``, true},
		{"timeouts", post("/timeouts", `{"type":"implicit","ms":500}`), `{"implicit":500}`, false},
		{"timeouts_unknown_type", post("/timeouts", `{"type":"nap","ms":500}`), ``, true},
		{"switch_window", post("/window", `{"name":"main"}`), `{"handle":"main"}`, false},
		{"element_refs", post("/execute", `{"script":"x","args":[{"ELEMENT":"e-9"}]}`), `{"script":"x","args":[{"` + ElementKeyW3C + `":"e-9"}]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Request(sid, tt.cmd)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrTranslation)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantBody, string(got.Body))
		})
	}
}

func TestConverter_Response(t *testing.T) {
	tests := []struct {
		name       string
		caller     domain.Dialect
		node       domain.Dialect
		resp       domain.CommandResponse
		wantStatus int
		wantBody   string
		wantErr    bool
	}{
		{
			name:       "legacy_success_to_w3c",
			caller:     domain.DialectW3C,
			node:       domain.DialectOSS,
			resp:       domain.CommandResponse{StatusCode: 200, Body: []byte(`{"status":0,"sessionId":"s-1","value":{"ELEMENT":"e-1"}}`)},
			wantStatus: 200,
			wantBody:   `{"value":{"` + ElementKeyW3C + `":"e-1"}}`,
		},
		{
			name:       "legacy_error_to_w3c",
			caller:     domain.DialectW3C,
			node:       domain.DialectOSS,
			resp:       domain.CommandResponse{StatusCode: 500, Body: []byte(`{"status":7,"sessionId":"s-1","value":{"message":"no #q"}}`)},
			wantStatus: 404,
			wantBody:   `{"value":{"error":"no such element","message":"no #q","stacktrace":""}}`,
		},
		{
			name:       "w3c_success_to_legacy",
			caller:     domain.DialectOSS,
			node:       domain.DialectW3C,
			resp:       domain.CommandResponse{StatusCode: 200, Body: []byte(`{"value":[{"` + ElementKeyW3C + `":"e-1"},{"` + ElementKeyW3C + `":"e-2"}]}`)},
			wantStatus: 200,
			wantBody:   `{"status":0,"sessionId":"s-1","value":[{"ELEMENT":"e-1"},{"ELEMENT":"e-2"}]}`,
		},
		{
			name:       "w3c_error_to_legacy",
			caller:     domain.DialectOSS,
			node:       domain.DialectW3C,
			resp:       domain.CommandResponse{StatusCode: 404, Body: []byte(`{"value":{"error":"no such window","message":"gone","stacktrace":"..."}}`)},
			wantStatus: 500,
			wantBody:   `{"status":23,"sessionId":"s-1","value":{"message":"gone"}}`,
		},
		{
			name:       "empty_success_body",
			caller:     domain.DialectOSS,
			node:       domain.DialectW3C,
			resp:       domain.CommandResponse{StatusCode: 200},
			wantStatus: 200,
			wantBody:   `{"status":0,"sessionId":"s-1","value":null}`,
		},
		{
			name:    "non_json_body",
			caller:  domain.DialectW3C,
			node:    domain.DialectOSS,
			resp:    domain.CommandResponse{StatusCode: 502, Body: []byte(`<html>bad gateway</html>`)},
			wantErr: true,
		},
		{
			name:    "w3c_error_without_code",
			caller:  domain.DialectOSS,
			node:    domain.DialectW3C,
			resp:    domain.CommandResponse{StatusCode: 500, Body: []byte(`{"value":{"message":"?"}}`)},
			wantErr: true,
		},
		{
			name:    "empty_error_body",
			caller:  domain.DialectOSS,
			node:    domain.DialectW3C,
			resp:    domain.CommandResponse{StatusCode: 500},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConverter(tt.caller, tt.node)
			got, err := c.Response(sid, tt.resp)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrTranslation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, "application/json; charset=utf-8", got.Header.Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, string(got.Body))
		})
	}
}

// A W3C caller talking to a legacy node through the converter sees the same value a W3C node would return.
func TestConverter_RoundTrip(t *testing.T) {
	w3cNode := func(cmd domain.Command) domain.CommandResponse {
		var body map[string]any
		_ = json.Unmarshal(cmd.Body, &body)
		value := map[string]any{"echo": body["args"], "title": "Example"}
		b, _ := json.Marshal(map[string]any{"value": value})
		return domain.CommandResponse{StatusCode: 200, Body: b}
	}
	legacyNode := func(cmd domain.Command) domain.CommandResponse {
		var body map[string]any
		_ = json.Unmarshal(cmd.Body, &body)
		value := map[string]any{"echo": body["args"], "title": "Example"}
		b, _ := json.Marshal(map[string]any{"status": 0, "sessionId": sid, "value": value})
		return domain.CommandResponse{StatusCode: 200, Body: b}
	}

	cmd := post("/execute/sync", `{"script":"return arguments","args":[{"`+ElementKeyW3C+`":"e-1"},"plain",3]}`)

	direct := w3cNode(cmd)

	c := NewConverter(domain.DialectW3C, domain.DialectOSS)
	translated, err := c.Request(sid, cmd)
	require.NoError(t, err)
	require.Equal(t, "/session/s-1/execute", translated.Path)
	back, err := c.Response(sid, legacyNode(translated))
	require.NoError(t, err)

	assert.Equal(t, direct.StatusCode, back.StatusCode)
	assert.JSONEq(t, string(direct.Body), string(back.Body))
}

func TestSessionGone(t *testing.T) {
	tests := []struct {
		name string
		d    domain.Dialect
		resp domain.CommandResponse
		want bool
	}{
		{"w3c_invalid_session", domain.DialectW3C, domain.CommandResponse{StatusCode: 404, Body: []byte(`{"value":{"error":"invalid session id","message":"x"}}`)}, true},
		{"w3c_other_error", domain.DialectW3C, domain.CommandResponse{StatusCode: 404, Body: []byte(`{"value":{"error":"no such element","message":"x"}}`)}, false},
		{"w3c_success", domain.DialectW3C, domain.CommandResponse{StatusCode: 200, Body: []byte(`{"value":null}`)}, false},
		{"legacy_status_6", domain.DialectOSS, domain.CommandResponse{StatusCode: 500, Body: []byte(`{"status":6,"value":{"message":"x"}}`)}, true},
		{"legacy_success", domain.DialectOSS, domain.CommandResponse{StatusCode: 200, Body: []byte(`{"status":0,"value":null}`)}, false},
		{"not_json", domain.DialectOSS, domain.CommandResponse{StatusCode: 500, Body: []byte(`oops`)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionGone(tt.d, tt.resp))
		})
	}
}
