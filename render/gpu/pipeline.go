package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/ember2d/ember/render/shaders"
)

// buildPipelines compiles the flat shader and creates the two pipeline
// variants. WebGPU bakes the attribute step mode into the pipeline, so the
// per-vertex / per-instance choice a caller makes through
// SetInstanceStepRate is realized by pipeline selection at draw time.
func (s *Surface) buildPipelines() error {
	module, err := s.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "EmberFlatShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.FlatWGSL},
	})
	if err != nil {
		return fmt.Errorf("compile flat shader: %w", err)
	}
	defer module.Release()

	s.uniformLayout, err = s.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "EmberUniformBGL",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: 16, // vec2 resolution + pad
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	layout, err := s.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{s.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	defer layout.Release()

	s.pipelinePerVertex, err = s.createPipeline(module, layout, wgpu.VertexStepModeVertex, "EmberFlatPerVertex")
	if err != nil {
		return err
	}
	s.pipelineInstanced, err = s.createPipeline(module, layout, wgpu.VertexStepModeInstance, "EmberFlatInstanced")
	if err != nil {
		return err
	}
	return nil
}

func (s *Surface) createPipeline(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, attrStep wgpu.VertexStepMode, label string) (*wgpu.RenderPipeline, error) {
	pipeline, err := s.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					// Slot 0: template shape, always per-vertex.
					ArrayStride: 2 * 4,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{{
						Format:         wgpu.VertexFormatFloat32x2,
						Offset:         0,
						ShaderLocation: 0,
					}},
				},
				{
					// Slot 1: center position.
					ArrayStride: 2 * 4,
					StepMode:    attrStep,
					Attributes: []wgpu.VertexAttribute{{
						Format:         wgpu.VertexFormatFloat32x2,
						Offset:         0,
						ShaderLocation: 1,
					}},
				},
				{
					// Slot 2: scale.
					ArrayStride: 1 * 4,
					StepMode:    attrStep,
					Attributes: []wgpu.VertexAttribute{{
						Format:         wgpu.VertexFormatFloat32,
						Offset:         0,
						ShaderLocation: 2,
					}},
				},
				{
					// Slot 3: RGBA color.
					ArrayStride: 4 * 4,
					StepMode:    attrStep,
					Attributes: []wgpu.VertexAttribute{{
						Format:         wgpu.VertexFormatFloat32x4,
						Offset:         0,
						ShaderLocation: 3,
					}},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    s.config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
					Alpha: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
				},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", label, err)
	}
	return pipeline, nil
}
