package gpu

// MeshVertexShader transforms interleaved mesh vertices.
const MeshVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 3) in vec4 aColor;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;
out vec4 vColor;

void main() {
    vNormal = mat3(uModel) * aNormal;
    vColor = aColor;
    gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
}
`

// MeshFragmentShader shades with one directional light. Vertices without color use
// uBaseColor.
const MeshFragmentShader = `#version 410 core
in vec3 vNormal;
in vec4 vColor;

uniform vec3 uLightDir;
uniform vec3 uBaseColor;

out vec4 FragColor;

void main() {
    vec3 base = vColor.a > 0.0 ? vColor.rgb : uBaseColor;
    float diffuse = 0.3;
    if (dot(vNormal, vNormal) > 0.0) {
        diffuse = max(dot(normalize(vNormal), -normalize(uLightDir)), 0.0) * 0.7 + 0.3;
    }
    FragColor = vec4(base * diffuse, 1.0);
}
`

// QuadVertexShader draws a screen-space textured quad.
const QuadVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec2 aTexCoord;

out vec2 vTexCoord;

void main() {
    vTexCoord = aTexCoord;
    gl_Position = vec4(aPosition, 1.0);
}
`

// QuadFragmentShader samples uTexture.
const QuadFragmentShader = `#version 410 core
in vec2 vTexCoord;

uniform sampler2D uTexture;

out vec4 FragColor;

void main() {
    FragColor = texture(uTexture, vTexCoord);
}
`
