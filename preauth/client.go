package preauth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bitly/go-simplejson"
	jsoniter "github.com/json-iterator/go"

	"github.com/ZenHive/ccxt-client-sub002/kitutils"
)

var (
	TimestampKey = "timestamp"
	SignatureKey = "signature"
)

// Redefining the standard package
var Json = jsoniter.ConfigCompatibleWithStandardLibrary

func currentTimestamp() int64 {
	return FormatTimestamp(time.Now())
}

// FormatTimestamp 毫秒时间戳
func FormatTimestamp(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

func NewJSON(data []byte) (j *simplejson.Json, err error) {
	j, err = simplejson.NewJson(data)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// NewClient 创建预鉴权HTTP客户端
// 只服务 listen-key 式的 token 交换, 不是通用REST层
func NewClient(ops ...Option) *Client {
	opts := &options{
		httpClient: http.DefaultClient,
	}
	for _, o := range ops {
		o(opts)
	}
	return &Client{
		userAgent: "ccxt-client",
		opts:      opts,
	}
}

// APIError define API error when response status is 4xx or 5xx
type APIError struct {
	Code    int64  `json:"code"`
	Message string `json:"msg"`
}

// Error return error code and message
func (e APIError) Error() string {
	return fmt.Sprintf("<APIError> code=%d, msg=%s", e.Code, e.Message)
}

// IsAPIError check if e is an API error
func IsAPIError(e error) bool {
	_, ok := e.(*APIError)
	return ok
}

type doFunc func(req *http.Request) (*http.Response, error)

// Client define API client
// 无可变状态, 可以被多条连接的工作协程并发使用
type Client struct {
	opts      *options
	userAgent string
	do        doFunc
}

func (c *Client) parseRequest(r *Request) (err error) {
	err = r.validate()
	if err != nil {
		return err
	}

	fullURL := fmt.Sprintf("%s%s", r.BaseURL, r.Endpoint)
	if r.SecType == SecTypeSigned {
		r.SetParam(TimestampKey, currentTimestamp())
	}
	queryString := r.query.Encode()
	body := &bytes.Buffer{}
	bodyString := r.form.Encode()
	header := http.Header{}
	if r.header != nil {
		header = r.header.Clone()
	}
	if bodyString != "" {
		header.Set("Content-Type", "application/x-www-form-urlencoded")
		body = bytes.NewBufferString(bodyString)
	}
	if r.SecType == SecTypeAPIKey || r.SecType == SecTypeSigned {
		header.Set("X-API-KEY", r.APIKey)
	}

	if r.SecType == SecTypeSigned {
		raw := fmt.Sprintf("%s%s", queryString, bodyString)
		v := url.Values{}
		v.Set(SignatureKey, kitutils.HmacSHA256Hex(r.SecretKey, raw))
		if queryString == "" {
			queryString = v.Encode()
		} else {
			queryString = fmt.Sprintf("%s&%s", queryString, v.Encode())
		}
	}
	if queryString != "" {
		fullURL = fmt.Sprintf("%s?%s", fullURL, queryString)
	}

	r.fullURL = fullURL
	r.header = header
	r.body = body
	return nil
}

func (c *Client) CallAPI(ctx context.Context, r *Request) (data []byte, err error) {
	err = c.parseRequest(r)
	if err != nil {
		return []byte{}, err
	}
	req, err := http.NewRequest(r.Method, r.fullURL, r.body)
	if err != nil {
		return []byte{}, err
	}
	req = req.WithContext(ctx)
	req.Header = r.header
	req.Header.Set("User-Agent", c.userAgent)
	f := c.do
	if f == nil {
		f = c.opts.httpClient.Do
	}
	res, err := f(req)
	if err != nil {
		return []byte{}, err
	}
	defer func() {
		cerr := res.Body.Close()
		if err == nil && cerr != nil {
			err = cerr
		}
	}()
	data, err = io.ReadAll(res.Body)
	if err != nil {
		return []byte{}, err
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := new(APIError)
		e := Json.Unmarshal(data, apiErr)
		if e != nil {
			return nil, e
		}
		return nil, apiErr
	}
	return data, nil
}
