package header

import (
	"errors"

	"braces.dev/errtrace"
	"github.com/bytedance/sonic"

	"github.com/ghettovoice/sipstack/internal/errorutil"
)

const errNotHeaderJSON errorutil.Error = "not a header JSON object"

type jsonHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ToJSON encodes a header as {"name":"<CanonicName>","value":"<RenderValue>"}.
func ToJSON(hdr Header) ([]byte, error) {
	if hdr == nil {
		return []byte("null"), nil
	}
	return errtrace.Wrap2(sonic.Marshal(jsonHeader{
		Name:  string(hdr.CanonicName()),
		Value: hdr.RenderValue(),
	}))
}

// FromJSON decodes a header encoded with [ToJSON].
// The value is re-parsed with [ParseValue], so only valid headers are decoded.
func FromJSON(data []byte) (Header, error) {
	var jh jsonHeader
	if err := sonic.Unmarshal(data, &jh); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if jh.Name == "" {
		return nil, errtrace.Wrap(errNotHeaderJSON)
	}
	return errtrace.Wrap2(ParseValue(jh.Name, jh.Value))
}

func fromJSONAs[T Header](data []byte) (T, error) {
	var zero T
	gh, err := FromJSON(data)
	if err != nil {
		if errors.Is(err, errNotHeaderJSON) {
			return zero, nil
		}
		return zero, errtrace.Wrap(err)
	}

	h, ok := gh.(T)
	if !ok {
		return zero, errtrace.Wrap(errorutil.Errorf("unexpected header: got %T, want %T", gh, zero))
	}
	return h, nil
}
