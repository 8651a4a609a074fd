package preauth

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
)

type SecType int

const (
	SecTypeNone SecType = iota
	SecTypeAPIKey
	SecTypeSigned // if the 'timestamp' parameter is required
)

type Params map[string]interface{}

// Request define an API request
type Request struct {
	Method    string
	BaseURL   string
	Endpoint  string
	SecType   SecType
	APIKey    string
	SecretKey string
	query     url.Values
	form      url.Values
	header    http.Header
	body      io.Reader
	fullURL   string
}

// SetParam set param with key/value to query string
func (r *Request) SetParam(key string, value interface{}) *Request {
	if r.query == nil {
		r.query = url.Values{}
	}
	r.query.Set(key, fmt.Sprintf("%v", value))
	return r
}

// SetFormParam set param with key/value to request form body
func (r *Request) SetFormParam(key string, value interface{}) *Request {
	if r.form == nil {
		r.form = url.Values{}
	}
	r.form.Set(key, fmt.Sprintf("%v", value))
	return r
}

func (r *Request) validate() (err error) {
	if r.query == nil {
		r.query = url.Values{}
	}
	if r.form == nil {
		r.form = url.Values{}
	}
	return nil
}
