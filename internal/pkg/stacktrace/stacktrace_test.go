package stacktrace

import (
	"reflect"
	"testing"
)

func TestInternalPaths(t *testing.T) {
	// Arrange
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/goblog/internal/pkg/router.middlewareRecoverer.func1.1()
	/app/internal/pkg/router/middleware_recover.go:27 +0x4a
panic({0x10a2b40?, 0x1234?})
	/usr/local/go/src/runtime/panic.go:770 +0x132
github.com/shandysiswandi/goblog/internal/post/usecase.(*Usecase).Detail(...)
	/app/internal/post/usecase/detail.go:18 +0x1d
github.com/shandysiswandi/goblog/internal/post/inbound.(*Endpoint).Detail(0xc000120000)
	/app/internal/post/inbound/http.go:64 +0x9c
net/http.HandlerFunc.ServeHTTP(0xc0000a8000?, {0x12f0a30?, 0xc0001c2000?}, 0xc0001b6000?)
	/usr/local/go/src/net/http/server.go:2171 +0x29
`)

	// Act
	got := InternalPaths(stack)

	// Assert
	want := []string{
		"internal/post/usecase/detail.go:18",
		"internal/post/inbound/http.go:64",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInternalPaths_NoInternalFrames(t *testing.T) {
	got := InternalPaths([]byte("goroutine 1 [running]:\nmain.main()\n\t/app/main.go:10 +0x1\n"))
	if len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
}
