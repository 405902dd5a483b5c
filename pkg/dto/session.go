package dto

type GenerateRequest struct {
	CustomerID *int64 `json:"customer_id,omitempty"`
	Tone       string `json:"tone,omitempty"`
	Length     string `json:"length,omitempty"`
}

type OptionsRequest struct {
	Tone   string `json:"tone,omitempty"`
	Length string `json:"length,omitempty"`
}
