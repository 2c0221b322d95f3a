package codec

// SettingID identifies a single SETTINGS parameter.
type SettingID uint16

// Standard settings identifiers from RFC 7540 Section 6.5.2, plus the
// extended-headers toggle which lives outside the IANA-registered range.
const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6

	// SettingEnableExHeaders advertises support for extended (EX_HEADERS)
	// exchanges. Experimental identifier, not IANA-registered.
	SettingEnableExHeaders SettingID = 0xfbfb
)

// Defaults for the RFC-defined settings.
const (
	DefaultHeaderTableSize   uint32 = 4096
	DefaultInitialWindowSize uint32 = 65535
	DefaultMaxFrameSize      uint32 = 16384
)

// Setting is one (identifier, value) pair.
type Setting struct {
	ID    SettingID
	Value uint32
}

// Settings is an ordered collection of settings. Order is preserved so that
// an encoder emits parameters in the order they were configured.
type Settings struct {
	settings []Setting
}

// NewSettings returns an empty settings collection.
func NewSettings() *Settings {
	return &Settings{}
}

// SetSetting sets id to value, replacing any existing entry for id.
func (s *Settings) SetSetting(id SettingID, value uint32) {
	for i := range s.settings {
		if s.settings[i].ID == id {
			s.settings[i].Value = value
			return
		}
	}
	s.settings = append(s.settings, Setting{ID: id, Value: value})
}

// GetSetting returns the value for id and whether it is present.
func (s *Settings) GetSetting(id SettingID) (uint32, bool) {
	for _, st := range s.settings {
		if st.ID == id {
			return st.Value, true
		}
	}
	return 0, false
}

// RemoveSetting deletes the entry for id, if present.
func (s *Settings) RemoveSetting(id SettingID) {
	for i := range s.settings {
		if s.settings[i].ID == id {
			s.settings = append(s.settings[:i], s.settings[i+1:]...)
			return
		}
	}
}

// All returns the settings in configuration order. The returned slice is a
// copy.
func (s *Settings) All() []Setting {
	out := make([]Setting, len(s.settings))
	copy(out, s.settings)
	return out
}

// Len returns the number of configured settings.
func (s *Settings) Len() int {
	return len(s.settings)
}
