package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	"github.com/onsi/gomega"
)

type RequestModifier func(r *http.Request)

type RequestModifiers []RequestModifier

func (r *RequestModifiers) Add(mods ...RequestModifier) {
	*r = append(*r, mods...)
}

func WithHeader(key string, value string) RequestModifier {
	return func(request *http.Request) {
		request.Header.Set(key, value)
	}
}

// FileUpload is a multipart part; a nil FileUpload sends no body at all.
type FileUpload struct {
	Field    string
	Filename string
	Contents []byte
}

type RequestFactory struct {
	Method  string
	Target  string
	JSONObj interface{}
	Upload  *FileUpload
	Mods    RequestModifiers
}

func (r RequestFactory) body() (io.Reader, string) {
	switch {
	case r.Upload != nil:
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)

		field := r.Upload.Field
		if field == "" {
			field = "file"
		}

		part, err := writer.CreateFormFile(field, r.Upload.Filename)
		gomega.ExpectWithOffset(2, err).NotTo(gomega.HaveOccurred())
		_, err = part.Write(r.Upload.Contents)
		gomega.ExpectWithOffset(2, err).NotTo(gomega.HaveOccurred())
		gomega.ExpectWithOffset(2, writer.Close()).To(gomega.Succeed())

		return buf, writer.FormDataContentType()

	case r.JSONObj != nil:
		buf := &bytes.Buffer{}
		err := json.NewEncoder(buf).Encode(r.JSONObj)
		gomega.ExpectWithOffset(2, err).NotTo(gomega.HaveOccurred())

		return buf, echo.MIMEApplicationJSON

	default:
		return nil, ""
	}
}

func (r RequestFactory) make(reqMaker func(string, string, io.Reader) *http.Request) *http.Request {
	body, contentType := r.body()
	request := reqMaker(r.Method, r.Target, body)

	if request == nil {
		return nil
	}

	if contentType != "" {
		request.Header.Set(echo.HeaderContentType, contentType)
	}

	for _, mod := range r.Mods {
		mod(request)
	}

	return request
}

func (r RequestFactory) Make() (*http.Request, error) {
	var makeErr error
	request := r.make(func(method string, target string, body io.Reader) *http.Request {
		req, err := http.NewRequest(method, target, body)
		makeErr = err
		return req
	})

	return request, makeErr
}

// Do sends the request over the network, for tests against a running server.
func (r RequestFactory) Do() (*http.Response, error) {
	request, err := r.Make()
	if err != nil {
		return nil, err
	}

	return http.DefaultClient.Do(request)
}

func (r RequestFactory) MakeFake() *http.Request {
	return r.make(httptest.NewRequest)
}

// Serve sends a fake request straight to handler.
func (r RequestFactory) Serve(handler http.Handler) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, r.MakeFake())
	return recorder
}
