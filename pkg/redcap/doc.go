// Package redcap sends requests to the REDCap API.
//
// Every request is a single form-encoded POST to the project's API URL. The
// sender adds the API token and the format fields to the caller's parameters,
// logs the raw response body, rejects non-2xx responses and decodes the
// JSON body.
//
// # Usage
//
//	cfg, err := redcap.ConfigFromEnv()
//	if err != nil {
//	    return err
//	}
//	sender := redcap.NewSender(cfg, redcap.WithLogger(logger))
//
//	fields, err := sender.Send(ctx, "metadata", nil)
//
// Imports pass the payload in the "data" parameter:
//
//	_, err = sender.Send(ctx, "record", map[string]string{"data": string(rows)})
//
// There is no retry. A failed call returns one of *ConfigError,
// *TransportError, *HTTPError or *DecodeError.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package redcap
