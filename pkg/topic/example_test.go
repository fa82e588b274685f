package topic_test

import (
	"fmt"

	"github.com/matzehuels/topiccloud/pkg/topic"
)

func ExampleSizeBucket() {
	thresholds := []float64{5, 10, 15, 20, 100, 200}
	sizes := []float64{8, 15, 20, 25, 30, 50}

	fmt.Println(topic.SizeBucket(topic.Topic{Label: "small", Volume: 3}, thresholds, sizes))
	fmt.Println(topic.SizeBucket(topic.Topic{Label: "huge", Volume: 300}, thresholds, sizes))
	// Output:
	// 8
	// 50
}

func ExampleClassifier() {
	c := topic.DefaultClassifier()
	t := topic.Topic{Label: "Berlin", Volume: 165, SentimentScore: 65}

	fmt.Println(c.Size(t), c.Category(t).ClassName())
	// Output: 60 positive
}
