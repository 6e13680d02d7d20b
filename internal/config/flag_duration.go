package config

import "time"

// flagDuration adapts time.Duration to the flag.Value interface while keeping
// "unset" distinguishable from an explicit zero.
type flagDuration struct {
	d   time.Duration
	set bool
}

func (f *flagDuration) String() string {
	if !f.set {
		return ""
	}
	return f.d.String()
}

func (f *flagDuration) Set(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	f.d = d
	f.set = true
	return nil
}

func (f *flagDuration) value() time.Duration {
	return f.d
}
