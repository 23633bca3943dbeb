package utility

import (
	"encoding/json"
)

// ConvertStruct chuyển đổi một struct sang struct khác qua JSON roundtrip.
// Parameters:
//   - source: Struct nguồn cần chuyển đổi
//   - target: Con trỏ đến struct đích
func ConvertStruct(source interface{}, target interface{}) error {
	jsonData, err := json.Marshal(source)
	if err != nil {
		return err
	}

	return json.Unmarshal(jsonData, target)
}
