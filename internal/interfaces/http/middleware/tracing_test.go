package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartinventory/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func attrValue(span sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func TestTracing_EnrichesServerSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	svc := newJWTService(time.Hour)
	r := gin.New()
	r.Use(
		RequestID(),
		Tracing(TracingConfig{ServiceName: "test", Enabled: true, TracerProvider: tp}),
		SpanEnricher(),
		JWTAuthMiddleware(svc),
	)
	r.GET("/api/v1/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/5", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+issue(t, svc, identity.RoleAdmin).Token)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /api/v1/products/:id", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)

	id, ok := attrValue(span, "request_id")
	assert.True(t, ok)
	assert.Equal(t, "req-42", id)
	user, ok := attrValue(span, "user_id")
	assert.True(t, ok)
	assert.Equal(t, "7", user)
}

func TestTracing_Disabled(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	r := gin.New()
	r.Use(Tracing(TracingConfig{Enabled: false, TracerProvider: tp}), SpanEnricher())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
}
