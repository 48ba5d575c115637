package viz

import "encoding/json"

// sceneJSON is the API shape of a scene.
type sceneJSON struct {
	*Scene
	Transform Transform          `json:"transform"`
	Tooltips  map[string]Tooltip `json:"tooltips,omitempty"`
}

// ToJSON encodes scene with its node tooltips for API consumers.
func ToJSON(scene *Scene, t Transform) ([]byte, error) {
	if t.K == 0 {
		t = Identity
	}
	out := sceneJSON{Scene: scene, Transform: t}
	if scene != nil && len(scene.Nodes) > 0 {
		out.Tooltips = make(map[string]Tooltip, len(scene.Nodes))
		for _, n := range scene.Nodes {
			if n.Node != nil {
				out.Tooltips[n.ID] = TooltipFor(n.Node)
			}
		}
	}
	return json.Marshal(out)
}
