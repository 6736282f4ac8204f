package benchmark

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/doodlesbykumbi/blog-in-go/pkg/render"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/blog-in-go/pkg/token"
)

const secret = "benchmark-secret-0123456789abcdef"

type staticUsers struct {
	level role.Role
}

func (u staticUsers) FindAccess(context.Context, string) (role.Role, bool, error) {
	return u.level, true, nil
}

func (u staticUsers) IsActive(context.Context, string) (bool, error) {
	return true, nil
}

func newTokens(b *testing.B) *token.Service {
	b.Helper()
	svc, err := token.NewService([]byte(secret), time.Hour)
	if err != nil {
		b.Fatal(err)
	}
	return svc
}

func BenchmarkToken(b *testing.B) {
	svc := newTokens(b)

	b.Run("Issue", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _ = svc.Issue("8f14e45f-ceea-467f-a0e6-7b1e3f0b2a11")
		}
	})

	b.Run("Verify", func(b *testing.B) {
		raw, err := svc.Issue("8f14e45f-ceea-467f-a0e6-7b1e3f0b2a11")
		if err != nil {
			b.Fatal(err)
		}

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _ = svc.Verify(raw)
		}
	})
}

func BenchmarkProtectedRoute(b *testing.B) {
	svc := newTokens(b)
	raw, err := svc.Issue("8f14e45f-ceea-467f-a0e6-7b1e3f0b2a11")
	if err != nil {
		b.Fatal(err)
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	bench := func(users staticUsers, check middleware.ActiveChecker) func(b *testing.B) {
		return func(b *testing.B) {
			auth := middleware.NewAuthenticator(svc, check, nil)
			guard := middleware.NewGuard(users, nil)
			h := auth.Middleware(guard.RequireRole(role.VIP)(ok))

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				r := httptest.NewRequest(http.MethodPost, "/blog", nil)
				r.Header.Set("Authorization", "Bearer "+raw)
				h.ServeHTTP(httptest.NewRecorder(), r)
			}
		}
	}

	b.Run("Admitted", bench(staticUsers{level: role.Admin}, nil))
	b.Run("Admitted with active check", bench(staticUsers{level: role.Admin}, staticUsers{}))
	b.Run("Denied", bench(staticUsers{level: role.Normal}, nil))
}

func BenchmarkRenderMarkdown(b *testing.B) {
	source := strings.Repeat("## Heading\n\nSome *emphasis* and a [link](https://example.com).\n\n- one\n- two\n\n", 50)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = render.Markdown(source)
	}
}
