package manifest

import "github.com/sirupsen/logrus"

// Options configures a Manifest.
type Options struct {
	Logger logrus.FieldLogger
}

// Option is a functional option for configuring New.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Logger: logrus.StandardLogger(),
	}
}

// WithLogger sets the structured logger used by loads, merges and saves.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = log }
}
