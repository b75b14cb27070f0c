package domain

// Tag es una etiqueta creada por un abogado. Muchos a muchos con Document.
type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ColorID   int    `json:"color_id"`
	CreatedBy *int64 `json:"created_by,omitempty"`
}

// PastelColor es una entrada de la paleta fija de etiquetas.
type PastelColor struct {
	Name       string
	Background string
	Border     string
}

// TagPalette tiene exactamente 16 colores; ColorID indexa esta tabla.
var TagPalette = [16]PastelColor{
	{Name: "rose", Background: "#FFE4E6", Border: "#FDA4AF"},
	{Name: "pink", Background: "#FCE7F3", Border: "#F9A8D4"},
	{Name: "fuchsia", Background: "#FAE8FF", Border: "#F0ABFC"},
	{Name: "purple", Background: "#F3E8FF", Border: "#D8B4FE"},
	{Name: "violet", Background: "#EDE9FE", Border: "#C4B5FD"},
	{Name: "indigo", Background: "#E0E7FF", Border: "#A5B4FC"},
	{Name: "blue", Background: "#DBEAFE", Border: "#93C5FD"},
	{Name: "sky", Background: "#E0F2FE", Border: "#7DD3FC"},
	{Name: "cyan", Background: "#CFFAFE", Border: "#67E8F9"},
	{Name: "teal", Background: "#CCFBF1", Border: "#5EEAD4"},
	{Name: "emerald", Background: "#D1FAE5", Border: "#6EE7B7"},
	{Name: "green", Background: "#DCFCE7", Border: "#86EFAC"},
	{Name: "lime", Background: "#ECFCCB", Border: "#BEF264"},
	{Name: "yellow", Background: "#FEF9C3", Border: "#FDE047"},
	{Name: "amber", Background: "#FEF3C7", Border: "#FCD34D"},
	{Name: "orange", Background: "#FFEDD5", Border: "#FDBA74"},
}

// Color devuelve el color de la paleta; un ColorID fuera de rango usa la entrada 0.
func (t Tag) Color() PastelColor {
	if t.ColorID < 0 || t.ColorID >= len(TagPalette) {
		return TagPalette[0]
	}
	return TagPalette[t.ColorID]
}
