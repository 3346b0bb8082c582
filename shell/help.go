package shell

import (
	"embed"
)

//go:embed helptext/*.txt
var helptext embed.FS

func usageTopic(topic string) string {
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return "There is no help text for the topic " + topic
	}
	return string(dat)
}
