package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel/trace"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
	redacted           = "redacted"
	binaryBody         = "binary"
)

var sensitiveKeys = []string{"password", "token", "secret", "signature", "api_key", "apikey"}

type requestLogLine struct {
	Time      string `json:"time"`
	Actor     string `json:"actor"`
	TraceID   string `json:"trace_id,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
	Request   struct {
		Method string `json:"method"`
		URI    string `json:"uri"`
		IP     string `json:"ip"`
		Body   any    `json:"body,omitempty"`
	} `json:"request"`
	Response struct {
		Status int    `json:"status"`
		Body   any    `json:"body,omitempty"`
		Error  string `json:"error,omitempty"`
	} `json:"response"`
}

// registerLogging emits one JSON line per request with summarized, redacted
// bodies. Public API responses are not dumped.
func registerLogging(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			line := requestLogLine{
				Time:      v.StartTime.Format(time.RFC3339),
				Actor:     "anonymous",
				LatencyMS: v.Latency.Milliseconds(),
			}
			if session, ok := CurrentSession(c); ok {
				line.Actor = session.Username
			}
			if sc := trace.SpanContextFromContext(c.Request().Context()); sc.HasTraceID() {
				line.TraceID = sc.TraceID().String()
			}
			line.Request.Method = v.Method
			line.Request.URI = v.URI
			line.Request.IP = v.RemoteIP
			line.Request.Body = c.Get(requestBodyLogKey)
			line.Response.Status = v.Status
			line.Response.Body = c.Get(responseBodyLogKey)
			if v.Error != nil {
				line.Response.Error = v.Error.Error()
			}

			buf, err := json.Marshal(line)
			if err != nil {
				return err
			}
			log.Println(string(buf))
			return nil
		},
	}))

	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			if summary := summarizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
				c.Set(requestBodyLogKey, summary)
			}
			if c.Response().Status >= 400 || c.Request().Method != "GET" {
				if summary := summarizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
					c.Set(responseBodyLogKey, summary)
				}
			}
		},
	}))
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func summarizeBody(body []byte, contentType string) any {
	if len(body) == 0 {
		return nil
	}
	mediaType := strings.ToLower(strings.TrimSpace(contentType))

	switch {
	case strings.HasPrefix(mediaType, "multipart/form-data"):
		return summarizeMultipart(body, contentType)
	case strings.HasPrefix(mediaType, "application/json") || json.Valid(body):
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return capJSON(redactJSON(data, ""))
		}
	case strings.HasPrefix(mediaType, "application/x-www-form-urlencoded"):
		if values, err := url.ParseQuery(string(body)); err == nil && len(values) > 0 {
			fields := make(map[string]any, len(values))
			for key, vals := range values {
				for _, v := range vals {
					addFormField(fields, key, redactString(v, key))
				}
			}
			return capJSON(fields)
		}
	}

	if isBinary(body) {
		return binaryBody
	}
	text := string(body)
	if isSensitiveKey(text) {
		return redacted
	}
	return clampString(text)
}

func redactJSON(value any, key string) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			if isSensitiveKey(k) {
				out[k] = redacted
				continue
			}
			out[k] = redactJSON(item, k)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = redactJSON(item, key)
		}
		return out
	case string:
		return redactString(v, key)
	default:
		return v
	}
}

func redactString(value, key string) string {
	if key != "" && isSensitiveKey(key) {
		return redacted
	}
	if isBinary([]byte(value)) {
		return binaryBody
	}
	return clampString(value)
}

func summarizeMultipart(body []byte, contentType string) any {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return binaryBody
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	fields := make(map[string]any)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return binaryBody
		}
		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}

		var value any = binaryBody
		if part.FileName() != "" {
			value = "file:" + part.FileName()
		} else if data, err := io.ReadAll(part); err == nil {
			value = redactString(string(data), name)
			if name == "payload" && json.Valid(data) {
				var decoded any
				if json.Unmarshal(data, &decoded) == nil {
					value = redactJSON(decoded, "")
				}
			}
		}
		_ = part.Close()
		addFormField(fields, name, value)
	}
	if len(fields) == 0 {
		return binaryBody
	}
	return capJSON(fields)
}

// capJSON replaces values whose encoding exceeds maxLoggedBody with a preview.
func capJSON(value any) any {
	buf, err := json.Marshal(value)
	if err != nil || len(buf) <= maxLoggedBody {
		return value
	}
	return map[string]any{"_truncated": true, "_preview": preview(value, 0)}
}

func preview(value any, depth int) any {
	const (
		maxDepth   = 3
		maxEntries = 6
		maxSamples = 3
		maxString  = 256
	)
	if depth >= maxDepth {
		return "...(omitted)..."
	}

	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, maxEntries+1)
		for i, k := range keys {
			if i == maxEntries {
				out["_omitted_fields"] = len(keys) - i
				break
			}
			out[k] = preview(v[k], depth+1)
		}
		return out
	case []any:
		n := min(len(v), maxSamples)
		sample := make([]any, n)
		for i := 0; i < n; i++ {
			sample[i] = preview(v[i], depth+1)
		}
		return map[string]any{"_total_items": len(v), "_sample": sample}
	case string:
		return truncate(v, maxString)
	default:
		return v
	}
}

func isBinary(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string) string {
	return truncate(value, maxLoggedBody)
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := value[:limit]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	return cut + "...(truncated)"
}

func addFormField(fields map[string]any, key string, value any) {
	existing, ok := fields[key]
	if !ok {
		fields[key] = value
		return
	}
	if items, ok := existing.([]any); ok {
		fields[key] = append(items, value)
		return
	}
	fields[key] = []any{existing, value}
}
