package sapodi

import "time"

type Observable interface{ Observe() string }

type Logger interface{ Log(msg string) }

type Clock interface{ Now() time.Time }

type Sensor struct {
	Register[Observable]
	Log Logger `inject:""`
}

func (Sensor) Observe() string { return "sensor" }

type Thermometer struct {
	Register[Observable]
}

func (*Thermometer) Observe() string { return "thermometer" }

type Controller struct {
	Logger Logger `inject:""`
	Clock  Clock  `inject:"name=wall"`
	label  string
}

type PlainData struct {
	A int
	B string
}

type SelfRegistered struct {
	Register[SelfRegistered]
}

// Impostor names an abstraction it does not implement
type Impostor struct {
	Register[Observable]
}

// Concrete names a struct that is not itself
type Concrete struct {
	Register[PlainData]
}

type BaseComponent struct {
	Register[Observable]
	Logger Logger `inject:""`
}

func (BaseComponent) Observe() string { return "base" }

// Derived inherits fields but not the registration of BaseComponent
type Derived struct {
	BaseComponent
	Clock Clock `inject:"optional"`
}

type deps struct {
	Logger Logger `inject:""`
}

type Service struct {
	deps
	Clock Clock `inject:""`
}

type hiddenDeps struct {
	Clock Clock `inject:""`
}

type Hidden struct {
	*hiddenDeps
	secret Logger `inject:""`
}

type CycleA struct {
	*CycleB
	X Logger `inject:""`
}

type CycleB struct {
	*CycleA
	Y Clock `inject:""`
}

type Malformed struct {
	Logger Logger `inject:"name="`
	Clock  Clock  `inject:"lazy"`
}

type Nested struct {
	Controller Controller `inject:""`
}
