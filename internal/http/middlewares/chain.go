package middlewares

import "net/http"

// Middleware envuelve un http.Handler con comportamiento adicional.
type Middleware func(http.Handler) http.Handler

// Chain compone los middlewares sobre h. El primero de la lista queda
// como capa más externa: Chain(h, A, B) atiende el request como A(B(h)).
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// ChainFunc compone middlewares directamente sobre un http.HandlerFunc.
func ChainFunc(hf http.HandlerFunc, mws ...Middleware) http.Handler {
	return Chain(hf, mws...)
}
