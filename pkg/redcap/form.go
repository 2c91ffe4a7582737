package redcap

import "net/url"

// Fixed form fields. They are written after the caller's parameters and
// always win over them.
const (
	FieldContent      = "content"
	FieldToken        = "token"
	FieldFormat       = "format"
	FieldReturnFormat = "returnFormat"

	formatJSON = "json"
)

// BuildForm merges params with the fixed content, token, format and
// returnFormat fields into a new url.Values. params is not modified and may
// be nil.
func BuildForm(content, token string, params map[string]string) url.Values {
	form := make(url.Values, len(params)+4)
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set(FieldContent, content)
	form.Set(FieldToken, token)
	form.Set(FieldFormat, formatJSON)
	form.Set(FieldReturnFormat, formatJSON)
	return form
}
