package browse

import (
	"errors"
	"net/url"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

var ErrSchemeNotAllowed = errors.New("only https links may be opened")

// Opener launches URLs in the user's default browser. Only https links
// are allowed; everything else is refused without launching anything.
type Opener struct {
	launch func(url string) error
}

func NewOpener() *Opener {
	return &Opener{launch: browser.OpenURL}
}

func (o *Opener) Open(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		log.Warn().Str("url", raw).Msg("refusing to open non-https link")
		return ErrSchemeNotAllowed
	}
	return o.launch(raw)
}
