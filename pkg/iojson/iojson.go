// Package iojson writes and reads JSON documents for commands whose output
// is meant to be piped into other tools.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// marshalFailure builds the error document written when obj cannot be
// encoded. It is assembled by hand since the encoder just failed.
func marshalFailure(err error) string {
	errBytes, _ := json.Marshal(err.Error())
	return fmt.Sprintf(`{"message":"failed to encode output","data":{"json_error":%s}}`, errBytes)
}

// WriteWith writes obj as indented JSON to w. Encoding failures are reported
// as a JSON error document on ew so w never receives partial output.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(ew, marshalFailure(err))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as a single line of JSON, suitable for JSON lines
// output.
func WriteLine(w io.Writer, obj any) error {
	return json.NewEncoder(w).Encode(obj)
}
