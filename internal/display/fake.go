package display

// Fake records every screen shown.
type Fake struct {
	// Frames holds the text of every Show call.
	Frames []string

	// ShowError, if set, is returned by Show.
	ShowError error
}

// Show records text.
func (f *Fake) Show(text string) error {
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Frames = append(f.Frames, text)
	return nil
}

// Last returns the most recent frame, or "" if none.
func (f *Fake) Last() string {
	if len(f.Frames) == 0 {
		return ""
	}
	return f.Frames[len(f.Frames)-1]
}
