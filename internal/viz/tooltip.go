package viz

import (
	"strings"

	"github.com/matsen/kbm/internal/node"
)

// Tooltip is the hover summary of an article.
type Tooltip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Department  string `json:"department"`
	Views       int    `json:"views"`
	Status      string `json:"status"`
	Helpfulness int    `json:"helpfulness"`
}

// TooltipFor builds the hover summary for n.
func TooltipFor(n *node.Node) Tooltip {
	return Tooltip{
		Title:       n.Title,
		Description: n.Description,
		Department:  string(n.Department),
		Views:       n.Analytics.Views,
		Status:      strings.Replace(string(n.Status), "-", " ", 1),
		Helpfulness: n.Analytics.Helpfulness,
	}
}
