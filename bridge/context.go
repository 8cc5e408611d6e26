package bridge

// Context is the bridge state linking one engine to one host.
// It is created once by a Guard and lives for the rest of the process; only
// the frame channel's buffer is populated after creation.
type Context struct {
	host       Host
	engine     Engine
	frames     *FrameChannel
	dispatcher *Dispatcher
	argv       Argv
	geometry   Geometry
}

func newContext(host Host, eng Engine, geom Geometry) *Context {
	c := &Context{
		host:     host,
		engine:   eng,
		geometry: geom,
		frames:   NewFrameChannel(geom, host),
	}
	c.dispatcher = &Dispatcher{ctx: c}
	return c
}

// Host returns the bound host panel.
func (c *Context) Host() Host {
	return c.host
}

// Engine returns the driven engine.
func (c *Context) Engine() Engine {
	return c.engine
}

// Geometry returns the frame layout.
func (c *Context) Geometry() Geometry {
	return c.geometry
}

// Frames returns the frame transfer channel.
func (c *Context) Frames() *FrameChannel {
	return c.frames
}

// Dispatcher returns the engine-facing callbacks.
func (c *Context) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// Argv returns the argument vector passed to the engine.
func (c *Context) Argv() Argv {
	return c.argv
}
