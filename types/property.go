package types

type SystemProperty struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
