package reports

// RunStyle is the inline run formatting applied to a DOCX paragraph.
type RunStyle struct {
	Bold   bool
	Italic bool
	Size   int
	Color  string
}

const (
	TitleColor   = "111111"
	HeadingColor = "1F2937"
	TitleSize    = 32
	HeadingSize  = 26
	SubheadSize  = 22

	highRiskColor   = "FF0000"
	mediumRiskColor = "FFA500"
	lowRiskColor    = "008000"
)

// StyleMap centralizes the formatting of report elements.
var StyleMap = map[string]RunStyle{
	"title":      {Bold: true, Size: TitleSize, Color: TitleColor},
	"heading":    {Bold: true, Size: HeadingSize, Color: HeadingColor},
	"clause":     {Bold: true, Size: SubheadSize},
	"meta":       {Italic: true},
	"body":       {},
	"riskHigh":   {Color: highRiskColor},
	"riskMedium": {Color: mediumRiskColor},
	"riskLow":    {Color: lowRiskColor},
}

func riskStyle(line string) RunStyle {
	switch riskLevel(line) {
	case "high":
		return StyleMap["riskHigh"]
	case "medium":
		return StyleMap["riskMedium"]
	case "low":
		return StyleMap["riskLow"]
	}
	return StyleMap["body"]
}
