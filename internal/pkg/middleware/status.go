package middleware

import "net/http"

type httpStatusWriter struct {
	Status int
	inner  http.ResponseWriter
}

func newStatusWriter(w http.ResponseWriter) *httpStatusWriter {
	return &httpStatusWriter{inner: w, Status: http.StatusOK}
}

func (sw *httpStatusWriter) Header() http.Header {
	return sw.inner.Header()
}

func (sw *httpStatusWriter) WriteHeader(status int) {
	sw.Status = status
	sw.inner.WriteHeader(status)
}

func (sw *httpStatusWriter) Write(b []byte) (int, error) {
	return sw.inner.Write(b)
}

func (sw *httpStatusWriter) Unwrap() http.ResponseWriter {
	return sw.inner
}
