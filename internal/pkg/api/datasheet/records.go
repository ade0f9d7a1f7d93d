package datasheet

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/spf13/cast"

	"github.com/datasheet-tools/settings-generator/internal/pkg/encoding/json"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

const (
	pageNumParam  = "pageNum"
	pageSizeParam = "pageSize"
)

// APIError is returned if the API responds with "success": false.
type APIError struct {
	DatasheetID string
	Code        int
	Message     string
}

func (e APIError) Error() string {
	return fmt.Sprintf(`datasheet "%s": api error %d: %s`, e.DatasheetID, e.Code, e.Message)
}

type response struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *page  `json:"data"`
}

type page struct {
	Total    int            `json:"total"`
	PageNum  int            `json:"pageNum"`
	PageSize int            `json:"pageSize"`
	Records  []model.Record `json:"records"`
}

// FetchRecords loads all records of the datasheet, page by page.
// The params are sent as query parameters of each request, see QueryParams.
func (c *Client) FetchRecords(ctx context.Context, datasheetID string, params *orderedmap.OrderedMap) ([]model.Record, error) {
	if datasheetID == "" {
		return nil, errors.New("datasheet id is not set")
	}

	query, err := QueryParams(params)
	if err != nil {
		return nil, errors.PrefixErrorf(err, `invalid params of datasheet "%s"`, datasheetID)
	}

	var out []model.Record
	for pageNum := 1; ; pageNum++ {
		p, err := c.fetchPage(ctx, datasheetID, query, pageNum)
		if err != nil {
			return nil, err
		}

		for _, record := range p.Records {
			if record.Fields == nil {
				record.Fields = orderedmap.New()
			}
			out = append(out, record)
		}

		c.logger.Debugf(ctx, `Datasheet "%s": page %d, %d records, total %d.`, datasheetID, pageNum, len(p.Records), p.Total)
		if len(p.Records) == 0 || pageNum*c.pageSize >= p.Total {
			break
		}
	}

	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, datasheetID string, query url.Values, pageNum int) (*page, error) {
	pageQuery := url.Values{}
	for k, v := range query {
		pageQuery[k] = v
	}
	pageQuery.Set(pageNumParam, strconv.Itoa(pageNum))
	pageQuery.Set(pageSizeParam, strconv.Itoa(c.pageSize))

	res, err := c.resty.R().
		SetContext(ctx).
		SetPathParam("datasheetId", datasheetID).
		SetQueryParamsFromValues(pageQuery).
		Get("/datasheets/{datasheetId}/records")

	// The body of an error response can contain the API error
	body := &response{}
	decodeErr := errors.New("empty response")
	if err == nil && len(res.Body()) > 0 {
		decodeErr = json.Decode(res.Body(), body)
	}

	switch {
	case err != nil:
		return nil, requestError(res, err)
	case decodeErr == nil && !body.Success:
		return nil, APIError{DatasheetID: datasheetID, Code: body.Code, Message: body.Message}
	case res.IsError():
		return nil, requestError(res, nil)
	case decodeErr != nil:
		return nil, errors.PrefixErrorf(decodeErr, `invalid response of datasheet "%s"`, datasheetID)
	case body.Data == nil:
		return nil, errors.Errorf(`invalid response of datasheet "%s": missing "data" field`, datasheetID)
	default:
		return body.Data, nil
	}
}

// QueryParams converts opaque request params to query parameters.
// Scalars are converted to strings, lists to repeated keys and objects to JSON.
// The "pageNum" and "pageSize" params are always set by the Client.
func QueryParams(params *orderedmap.OrderedMap) (url.Values, error) {
	out := url.Values{}
	if params == nil {
		return out, nil
	}

	for _, key := range params.Keys() {
		value, _ := params.Get(key)
		if list, ok := value.([]any); ok {
			for _, item := range list {
				str, err := queryValue(item)
				if err != nil {
					return nil, errors.PrefixErrorf(err, `param "%s"`, key)
				}
				out.Add(key, str)
			}
			continue
		}

		if value == nil {
			continue
		}
		str, err := queryValue(value)
		if err != nil {
			return nil, errors.PrefixErrorf(err, `param "%s"`, key)
		}
		out.Set(key, str)
	}
	return out, nil
}

func queryValue(value any) (string, error) {
	switch v := value.(type) {
	case *orderedmap.OrderedMap, map[string]any, []any:
		return json.EncodeString(v, false)
	default:
		return cast.ToStringE(v)
	}
}
