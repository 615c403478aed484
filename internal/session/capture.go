package session

import (
	"context"

	"github.com/rbright/ue5ctl/internal/images"
	"github.com/rbright/ue5ctl/internal/osc"
)

// SaveImage asks the engine to capture the next sequentially numbered
// artifact and returns its path. The call then sleeps a settle delay: the
// engine writes the file asynchronously and the protocol offers no
// save-complete signal, so a fixed pause is the only way to let the
// artifact land before the caller reads it back.
func (s *Session) SaveImage(ctx context.Context) (string, error) {
	path := images.SequencePath(s.imageDir, s.imageCount+1)
	if err := s.sender.Send(ctx, osc.NewMessage(addrSaveImage, path)); err != nil {
		return "", err
	}
	s.imageCount++
	s.sleep(s.imageSettle)
	return path, nil
}

// LastImagePath returns the path of the most recent SaveImage artifact.
func (s *Session) LastImagePath() (string, bool) {
	if s.imageCount == 0 {
		return "", false
	}
	return images.SequencePath(s.imageDir, s.imageCount), true
}
