package actor

// Entity is a drawable object: its own transform, plus a mesh and a material
// that may be shared with other entities.
type Entity struct {
	Name string

	transform Transform
	mesh      *Mesh
	material  *Material
}

// NewEntity creates an entity at the identity transform
func NewEntity(name string, mesh *Mesh, material *Material) *Entity {
	return &Entity{
		Name:      name,
		transform: NewTransform(),
		mesh:      mesh,
		material:  material,
	}
}

// Transform returns the entity's transform for in-place mutation
func (e *Entity) Transform() *Transform {
	return &e.transform
}

func (e *Entity) Mesh() *Mesh {
	return e.mesh
}

func (e *Entity) Material() *Material {
	return e.material
}

func (e *Entity) SetMaterial(material *Material) {
	e.material = material
}

func (e *Entity) SetMesh(mesh *Mesh) {
	e.mesh = mesh
}

// WorldBounds returns the mesh bounds moved into world space.
// Entities without a mesh have empty bounds.
func (e *Entity) WorldBounds() AABB {
	if e.mesh == nil {
		return EmptyAABB()
	}
	return e.mesh.Bounds().Transform(e.transform.WorldMatrix())
}
