package sink

import (
	"github.com/matzehuels/topiccloud/pkg/scene"
)

// RenderJSON serializes s as indented JSON. The output can be read back
// with [scene.UnmarshalScene].
func RenderJSON(s scene.Scene) ([]byte, error) {
	return scene.MarshalScene(s)
}
