package render

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"voxelcraft/internal/meshing"
	"voxelcraft/internal/profiling"
	"voxelcraft/internal/world"
)

// floatsPerVertex is the interleaved layout: position 3, normal 3,
// linear color 3, ambient occlusion 1.
const floatsPerVertex = 10

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec3 aColor;
layout (location = 3) in float aAO;

uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec3 vColor;
out float vAO;

void main() {
    vNormal = aNormal;
    vColor = aColor;
    vAO = aAO;
    gl_Position = uProjection * uView * vec4(aPos, 1.0);
}
`

const fragmentShaderSource = `#version 410 core
in vec3 vNormal;
in vec3 vColor;
in float vAO;

uniform vec3 uLightDir;

out vec4 fragColor;

void main() {
    float diffuse = max(dot(normalize(vNormal), -uLightDir), 0.0);
    float light = 0.35 + 0.65 * diffuse;
    float ao = 0.4 + 0.6 * vAO;
    vec3 linear = vColor * light * ao;
    // Colors arrive linear; encode back to sRGB for display.
    fragColor = vec4(pow(linear, vec3(1.0 / 2.2)), 1.0);
}
`

// chunkMesh is one chunk's GPU-side mesh slot. The buffers are created
// once and orphan-updated in place on every remesh.
type chunkMesh struct {
	vao uint32
	vbo uint32
	ebo uint32

	vertexCount int32
	indexCount  int32
}

// Renderer owns the shader and the chunk mesh slots. It implements
// meshing.MeshSink, so the scheduler pushes refreshed meshes straight
// into GPU buffers on the game loop thread.
type Renderer struct {
	shader  *Shader
	meshes  map[world.ChunkCoord]*chunkMesh
	scratch []float32

	LightDir mgl32.Vec3
}

// NewRenderer compiles the shader. Requires a current GL context.
func NewRenderer() (*Renderer, error) {
	shader, err := NewShader(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		shader:   shader,
		meshes:   make(map[world.ChunkCoord]*chunkMesh),
		LightDir: mgl32.Vec3{-0.5, -0.8, -0.3}.Normalize(),
	}, nil
}

// ApplyMesh uploads a refreshed chunk mesh into its GPU slot.
func (r *Renderer) ApplyMesh(coord world.ChunkCoord, buffers *meshing.MeshBuffers) {
	defer profiling.Track("render.ApplyMesh")()

	vertexCount := buffers.VertexCount()
	if vertexCount == 0 {
		if mesh, ok := r.meshes[coord]; ok {
			mesh.vertexCount = 0
			mesh.indexCount = 0
		}
		return
	}

	mesh, ok := r.meshes[coord]
	if !ok {
		mesh = &chunkMesh{}
		gl.GenVertexArrays(1, &mesh.vao)
		gl.GenBuffers(1, &mesh.vbo)
		gl.GenBuffers(1, &mesh.ebo)

		gl.BindVertexArray(mesh.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, mesh.vbo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mesh.ebo)

		stride := int32(floatsPerVertex * 4)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
		gl.EnableVertexAttribArray(2)
		gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, 6*4)
		gl.EnableVertexAttribArray(3)
		gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, stride, 9*4)

		r.meshes[coord] = mesh
	}

	r.scratch = r.scratch[:0]
	for i := 0; i < vertexCount; i++ {
		ao := float32(1)
		if len(buffers.AmbientOcclusion) > i {
			ao = buffers.AmbientOcclusion[i]
		}
		r.scratch = append(r.scratch,
			buffers.Positions[i*3], buffers.Positions[i*3+1], buffers.Positions[i*3+2],
			buffers.Normals[i*3], buffers.Normals[i*3+1], buffers.Normals[i*3+2],
			buffers.Colors[i*3], buffers.Colors[i*3+1], buffers.Colors[i*3+2],
			ao)
	}

	gl.BindVertexArray(mesh.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, mesh.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.scratch)*4, unsafe.Pointer(&r.scratch[0]), gl.DYNAMIC_DRAW)
	mesh.vertexCount = int32(vertexCount)

	if len(buffers.Indices) > 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mesh.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(buffers.Indices)*4, unsafe.Pointer(&buffers.Indices[0]), gl.DYNAMIC_DRAW)
		mesh.indexCount = int32(len(buffers.Indices))
	} else {
		mesh.indexCount = 0
	}
}

// Render draws every chunk mesh with the given camera.
func (r *Renderer) Render(view, projection mgl32.Mat4) {
	defer profiling.Track("render.Render")()

	r.shader.Use()
	r.shader.SetMat4("uView", view)
	r.shader.SetMat4("uProjection", projection)
	r.shader.SetVec3("uLightDir", r.LightDir)

	for _, mesh := range r.meshes {
		if mesh.vertexCount == 0 {
			continue
		}
		gl.BindVertexArray(mesh.vao)
		if mesh.indexCount > 0 {
			gl.DrawElementsWithOffset(gl.TRIANGLES, mesh.indexCount, gl.UNSIGNED_INT, 0)
		} else {
			gl.DrawArrays(gl.TRIANGLES, 0, mesh.vertexCount)
		}
	}
	gl.BindVertexArray(0)
}

// Dispose frees all GPU resources.
func (r *Renderer) Dispose() {
	for _, mesh := range r.meshes {
		gl.DeleteBuffers(1, &mesh.vbo)
		gl.DeleteBuffers(1, &mesh.ebo)
		gl.DeleteVertexArrays(1, &mesh.vao)
	}
	r.meshes = make(map[world.ChunkCoord]*chunkMesh)
	r.shader.Delete()
}
