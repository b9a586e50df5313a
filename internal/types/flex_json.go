// flex_json.go
//
// A scalable, high performance drop-in replacement for the jam-build nodejs form service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-formsdb.
// jam-build-formsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-formsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-formsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package types

import (
	"encoding/json"
)

// FlexJSON is a JSON payload that can be unmarshaled either from an inline
// JSON value or from a JSON string holding a serialized value. Browser
// clients JSON.stringify form layouts and answers before posting, so the
// wire carries both shapes.
type FlexJSON []byte

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexJSON) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = nil
		return nil
	}

	// A string element is a serialized JSON document; unwrap it
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexJSON(s)
		return nil
	}

	*f = append((*f)[0:0], data...)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexJSON) MarshalJSON() ([]byte, error) {
	if len(f) == 0 {
		return []byte("null"), nil
	}
	return []byte(f), nil
}

// Bytes converts FlexJSON back to a raw byte slice.
func (f FlexJSON) Bytes() []byte {
	return []byte(f)
}

// Valid reports whether the payload is well-formed JSON.
func (f FlexJSON) Valid() bool {
	return json.Valid([]byte(f))
}
