package sqlic

import (
	"fmt"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
)

const ptrSize = types.Size_t(unsafe.Sizeof(uintptr(0)))

func malloc(tls *libc.TLS, n types.Size_t) (uintptr, error) {
	p := libc.Xmalloc(tls, n)
	if p == 0 {
		return 0, fmt.Errorf("out of memory")
	}
	return p, nil
}

// mallocBytes copies b into a fresh libc allocation. A zero-length b still
// allocates one byte so the engine never sees a null pointer.
func mallocBytes(tls *libc.TLS, b []byte) (uintptr, error) {
	n := types.Size_t(len(b))
	if n == 0 {
		n = 1
	}
	p, err := malloc(tls, n)
	if err != nil {
		return 0, err
	}
	for i := 0; i < len(b); i++ {
		*(*byte)(unsafe.Pointer(p + uintptr(i))) = b[i]
	}
	return p, nil
}

func goStringN(s uintptr, n int) string {
	if s == 0 {
		return ""
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(s)), n)
	return string(b)
}

// cFuncPointer converts a function defined by a function declaration to a C
// pointer. The result of using cFuncPointer on closures is undefined.
func cFuncPointer[T any](f T) uintptr {
	// Assumes the memory representation described in https://golang.org/s/go11func.
	return *(*uintptr)(unsafe.Pointer(&struct{ f T }{f}))
}

// freeFuncPtr is passed to sqlite3_bind_text/blob as the destructor for
// values copied into engine-owned memory.
var freeFuncPtr = cFuncPointer(libc.Xfree)
