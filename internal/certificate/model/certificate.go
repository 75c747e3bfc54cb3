package model

// Align values accepted for a layout element.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// LayoutElement positions one placeholder on the certificate background.
type LayoutElement struct {
	Key      string  `json:"key"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize int     `json:"font_size"`
	Align    string  `json:"align"`
}

// CertificateTemplate is a printable layout over a background image. The
// server only stores the layout and resolves placeholder values; rendering
// happens client side.
type CertificateTemplate struct {
	TemplateID     string          `json:"template_id"`
	Name           string          `json:"name"`
	BackgroundPath string          `json:"background_path"`
	Layout         []LayoutElement `json:"layout"`
	Published      bool            `json:"published"`
	CreatedTime    int64           `json:"created_time"`
	UpdatedTime    int64           `json:"updated_time"`
}

// CertificateTemplateRequest is the API payload for create and update.
type CertificateTemplateRequest struct {
	Name           string          `json:"name"`
	BackgroundPath string          `json:"background_path"`
	Layout         []LayoutElement `json:"layout"`
}

// RenderData is a template merged with one employee's resolved placeholder
// values, ready for a renderer to draw.
type RenderData struct {
	Template CertificateTemplate `json:"template"`
	Values   map[string]string   `json:"values"`
}
