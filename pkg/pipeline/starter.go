package pipeline

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/photo"
)

// starterLayouts picks a template by the number of photos on a page.
var starterLayouts = map[int]string{
	1: "heroFull",
	2: "twoVertical",
	3: "threeVertical",
	4: "fourGrid",
	5: "sixGrid",
	6: "sixGrid",
}

const starterPageSize = 6

// StarterCompose lays out a collection as a compose file: one titled run of
// pages per event, up to six photos a page, then the extras.
func StarterCompose(col *photo.Collection) *Compose {
	c := &Compose{}
	for _, event := range col.Events() {
		c.addRun(event, col.Clusters[event])
	}
	c.addRun("", col.Extras)
	if len(c.Pages) == 0 {
		c.Pages = []ComposePage{{Layout: "blank"}}
	}
	return c
}

func (c *Compose) addRun(title string, refs []string) {
	for start := 0; start < len(refs); start += starterPageSize {
		chunk := refs[start:min(start+starterPageSize, len(refs))]
		p := ComposePage{Layout: starterLayouts[len(chunk)], Photos: chunk}
		if start == 0 && title != "" {
			p.Texts = []ComposeText{{
				Content:  document.Ptr(title),
				X:        document.Ptr(5.0),
				Y:        document.Ptr(1.0),
				FontSize: document.Ptr(20.0),
			}}
		}
		c.Pages = append(c.Pages, p)
	}
}

// Encode writes c as TOML.
func (c *Compose) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode compose toml")
	}
	return nil
}
