package models

// ComponentKind identifies the drawable type of a 2D scene component.
type ComponentKind string

const (
	KindTank          ComponentKind = "tank"
	KindHeater        ComponentKind = "heater"
	KindPump          ComponentKind = "pump"
	KindValve         ComponentKind = "valve"
	KindHeatExchanger ComponentKind = "heat_exchanger"
	KindSolenoidValve ComponentKind = "solenoid_valve"
	KindCondenser     ComponentKind = "condenser"
	KindBlower        ComponentKind = "blower"
	KindPipe          ComponentKind = "pipe"
)

// Point is a 2D scene coordinate.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Rect is an axis-aligned rectangle relative to a component's position.
type Rect struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// Visual2D is the renderer-neutral description of one drawable at the
// current tick. Fields irrelevant to a kind are left zero.
type Visual2D struct {
	Name     string        `json:"name" msgpack:"name"`
	Kind     ComponentKind `json:"kind" msgpack:"kind"`
	Position Point         `json:"position" msgpack:"position"`
	Bounds   Rect          `json:"bounds" msgpack:"bounds"`
	Active   bool          `json:"active" msgpack:"active"`
	Phase    float64       `json:"phase" msgpack:"phase"`

	Color  Color `json:"color" msgpack:"color"`
	Accent Color `json:"accent" msgpack:"accent"`

	Rotation    float64 `json:"rotation,omitempty" msgpack:"rotation,omitempty"`
	Speed       float64 `json:"speed,omitempty" msgpack:"speed,omitempty"`
	FlowRate    float64 `json:"flowRate,omitempty" msgpack:"flowRate,omitempty"`
	Open        bool    `json:"open,omitempty" msgpack:"open,omitempty"`
	ValveType   string  `json:"valveType,omitempty" msgpack:"valveType,omitempty"`
	Opening     float64 `json:"opening,omitempty" msgpack:"opening,omitempty"`
	Indicator   float64 `json:"indicator,omitempty" msgpack:"indicator,omitempty"`
	Glow        float64 `json:"glow,omitempty" msgpack:"glow,omitempty"`
	Power       float64 `json:"power,omitempty" msgpack:"power,omitempty"`
	Intensity   float64 `json:"intensity,omitempty" msgpack:"intensity,omitempty"`
	Level       float64 `json:"level,omitempty" msgpack:"level,omitempty"`
	Temperature float64 `json:"temperature,omitempty" msgpack:"temperature,omitempty"`
	HotTemp     float64 `json:"hotTemp,omitempty" msgpack:"hotTemp,omitempty"`
	ColdTemp    float64 `json:"coldTemp,omitempty" msgpack:"coldTemp,omitempty"`

	Path       []Point `json:"path,omitempty" msgpack:"path,omitempty"`
	Width      float64 `json:"width,omitempty" msgpack:"width,omitempty"`
	FlowOffset float64 `json:"flowOffset,omitempty" msgpack:"flowOffset,omitempty"`
	Forward    bool    `json:"forward,omitempty" msgpack:"forward,omitempty"`
	Flowing    bool    `json:"flowing,omitempty" msgpack:"flowing,omitempty"`
}

// Label is static scene text.
type Label struct {
	Text     string `json:"text" msgpack:"text"`
	Position Point  `json:"position" msgpack:"position"`
	Size     int    `json:"size" msgpack:"size"`
	Bold     bool   `json:"bold,omitempty" msgpack:"bold,omitempty"`
}

// Frame2D is everything a 2D renderer needs to paint one tick.
type Frame2D struct {
	Seq        uint64     `json:"seq" msgpack:"seq"`
	SimTime    float64    `json:"simTime" msgpack:"simTime"`
	Running    bool       `json:"running" msgpack:"running"`
	Width      float64    `json:"width" msgpack:"width"`
	Height     float64    `json:"height" msgpack:"height"`
	Title      string     `json:"title" msgpack:"title"`
	Labels     []Label    `json:"labels" msgpack:"labels"`
	Components []Visual2D `json:"components" msgpack:"components"`
}

// Vec3 is a 3D scene coordinate or extent.
type Vec3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Quat is a unit rotation quaternion.
type Quat struct {
	W float64 `json:"w" msgpack:"w"`
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Shape identifies a 3D mesh primitive.
type Shape string

const (
	ShapeNone     Shape = ""
	ShapeCylinder Shape = "cylinder"
	ShapeBox      Shape = "box"
	ShapeSphere   Shape = "sphere"
)

// Entity3D is one node of the 3D scene graph. Position and Rotation are
// relative to the parent node.
type Entity3D struct {
	ID       string     `json:"id" msgpack:"id"`
	Name     string     `json:"name" msgpack:"name"`
	Shape    Shape      `json:"shape,omitempty" msgpack:"shape,omitempty"`
	Position Vec3       `json:"position" msgpack:"position"`
	Rotation Quat       `json:"rotation" msgpack:"rotation"`
	Extent   Vec3       `json:"extent,omitempty" msgpack:"extent,omitempty"`
	Radius   float64    `json:"radius,omitempty" msgpack:"radius,omitempty"`
	Length   float64    `json:"length,omitempty" msgpack:"length,omitempty"`
	Diffuse  Color      `json:"diffuse" msgpack:"diffuse"`
	Ambient  Color      `json:"ambient" msgpack:"ambient"`
	Active   bool       `json:"active" msgpack:"active"`
	Children []Entity3D `json:"children,omitempty" msgpack:"children,omitempty"`
}

// Light is a point light.
type Light struct {
	Position  Vec3    `json:"position" msgpack:"position"`
	Intensity float64 `json:"intensity" msgpack:"intensity"`
	Color     Color   `json:"color" msgpack:"color"`
}

// Camera is a perspective camera.
type Camera struct {
	Position    Vec3    `json:"position" msgpack:"position"`
	ViewCenter  Vec3    `json:"viewCenter" msgpack:"viewCenter"`
	Up          Vec3    `json:"up" msgpack:"up"`
	FieldOfView float64 `json:"fieldOfView" msgpack:"fieldOfView"`
	AspectRatio float64 `json:"aspectRatio" msgpack:"aspectRatio"`
	NearPlane   float64 `json:"nearPlane" msgpack:"nearPlane"`
	FarPlane    float64 `json:"farPlane" msgpack:"farPlane"`
}

// Frame3D is everything a 3D renderer needs to draw one tick.
type Frame3D struct {
	Seq      uint64     `json:"seq" msgpack:"seq"`
	SimTime  float64    `json:"simTime" msgpack:"simTime"`
	Running  bool       `json:"running" msgpack:"running"`
	Camera   Camera     `json:"camera" msgpack:"camera"`
	Lights   []Light    `json:"lights" msgpack:"lights"`
	Entities []Entity3D `json:"entities" msgpack:"entities"`
}
