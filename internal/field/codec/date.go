package codec

import (
	"encoding/json"
	"strings"
	"time"

	fieldUsecase "github.com/allisson/cryptfields/internal/field/usecase"
)

// DateLayout is the plaintext form of a date value.
const DateLayout = "2006-01-02"

// NewDateCodec creates a Codec for calendar dates. Encode accepts time.Time and *time.Time;
// only the date part in the value's own location is kept. Decode returns a UTC time.Time at
// midnight.
func NewDateCodec(cryptor fieldUsecase.FieldCryptor) Codec {
	return &fieldCodec{cryptor: cryptor, text: dateFormatter{}}
}

type dateFormatter struct{}

func (dateFormatter) name() string { return "date" }

func (dateFormatter) format(value any) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case time.Time:
		if v.IsZero() {
			return "", false, nil
		}
		return v.Format(DateLayout), true, nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return "", false, nil
		}
		return v.Format(DateLayout), true, nil
	default:
		return "", false, &InvalidValueTypeError{Expected: "time.Time", Got: value}
	}
}

// parse also accepts a JSON string literal, the form older records were written in.
func (dateFormatter) parse(text string) (any, error) {
	if strings.HasPrefix(text, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(text), &unquoted); err != nil {
			return nil, err
		}
		text = unquoted
	}
	date, err := time.Parse(DateLayout, text)
	if err != nil {
		return nil, err
	}
	return date, nil
}
