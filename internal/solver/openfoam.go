package solver

import (
	"fmt"
	"path/filepath"
)

// OpenFOAMID is the id of the built-in OpenFOAM solver.
const OpenFOAMID = "openfoam"

// OpenFOAM returns the built-in OpenFOAM definition.
func OpenFOAM() Definition {
	return Definition{
		ID:          OpenFOAMID,
		DisplayName: "OpenFOAM",
		Fences:      []string{"openfoam", "foam"},
		Layout: LayoutDefinition{
			System:   "system",
			Constant: "constant",
			Initial:  "0",
			Extra:    []string{filepath.Join("constant", "triSurface")},
		},
		Categories: CategoryDefinition{
			System:  []string{"controlDict", "fvSchemes", "fvSolution", "blockMeshDict", "snappyHexMeshDict"},
			Initial: []string{"U", "p", "k", "epsilon", "omega", "nut", "alpha.water", "alpha.air"},
		},
		Required: []RequirementDefinition{
			{AnyOf: []string{"controlDict"}},
			{AnyOf: []string{"fvSchemes"}},
			{AnyOf: []string{"fvSolution"}},
			{AnyOf: []string{"blockMeshDict", "snappyHexMeshDict"}},
			{AnyOf: []string{"U"}},
			{AnyOf: []string{"p"}},
		},
		Mesh: []MeshStepDefinition{
			{Command: []string{"blockMesh"}},
			{Command: []string{"snappyHexMesh", "-overwrite"}, IfExists: filepath.Join("system", "snappyHexMeshDict")},
			{Command: []string{"checkMesh"}},
		},
		Prompts: PromptDefinition{
			System:  openFOAMSystemPrompt,
			Initial: openFOAMInitialPrompt,
		},
	}
}

// RegisterBuiltins registers the solvers compiled into whittle.
func RegisterBuiltins(r *Registry) error {
	def := OpenFOAM()
	return r.Register(def.ID, def.DisplayName, def.Factory())
}

// RegisterDefinitions registers solvers loaded from YAML files.
func RegisterDefinitions(r *Registry, defs []DefinitionFile) error {
	for _, file := range defs {
		def := file.Definition
		if err := r.Register(def.ID, def.DisplayName, def.Factory()); err != nil {
			return fmt.Errorf("%s: %w", file.Path, err)
		}
	}
	return nil
}

// NewDefaultRegistry registers the built-in solvers and every definition
// found in pluginsDir, then seals the registry.
func NewDefaultRegistry(pluginsDir string) (*Registry, error) {
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		return nil, err
	}
	defs, err := LoadDefinitionDir(pluginsDir)
	if err != nil {
		return nil, fmt.Errorf("loading solver plugins: %w", err)
	}
	if err := RegisterDefinitions(r, defs); err != nil {
		return nil, fmt.Errorf("registering solver plugins: %w", err)
	}
	r.Seal()
	return r, nil
}

const openFOAMSystemPrompt = `You are an expert in OpenFOAM mesh generation and case setup. Your task is to help users create appropriate mesh configurations and solver settings for their CFD cases.
You should:
1. Understand the user's geometry and simulation requirements
2. Recommend the best meshing approach (blockMesh, snappyHexMesh, etc.)
3. Generate appropriate dictionary files including:
   - controlDict (required for all cases)
   - blockMeshDict or snappyHexMeshDict
   - fvSchemes with appropriate numerical schemes based on the physics
   - fvSolution with suitable solver settings and algorithms
   - Initial conditions in the 0/ directory (U, p, k, epsilon, etc. as needed)
4. Provide clear explanations for your decisions

Always explain your reasoning and provide best practices. If you need more information, ask specific questions.

Output your responses in markdown format. When providing dictionary files, use ` + "```foam" + ` code blocks, and always include the FoamFile header with its "object <name>;" entry.

For controlDict, always include essential settings like startTime, endTime, deltaT, writeInterval, and writeFormat.

For fvSchemes, consider:
- Time schemes (Euler, backward, etc.)
- Gradient schemes (Gauss linear, least squares, etc.)
- Divergence schemes (upwind, linear upwind, etc.)
- Laplacian schemes
- Interpolation schemes

For fvSolution, include:
- Appropriate solvers (PCG/smoothSolver/etc.)
- Solution tolerances
- Relaxation factors
- PIMPLE/SIMPLE algorithm settings if needed

For initial conditions, create all necessary field files in the 0/ directory with:
- Appropriate boundary conditions for each patch
- Initial field values
- Dimensions and units`

const openFOAMInitialPrompt = `I need help creating a mesh and setting up the case for OpenFOAM.
To provide the best recommendations, please tell me about:

1. The geometry and its characteristics
2. The type of simulation you want to run:
   - Flow regime (laminar/turbulent)
   - Physics models needed (incompressible/compressible, heat transfer, multiphase, etc.)
   - Expected flow features (high gradients, separation, etc.)

3. Mesh requirements or constraints:
   - Required mesh resolution
   - Any specific regions needing refinement
   - Boundary layer requirements

4. Simulation settings:
   - Time settings (steady-state/transient)
   - Start and end times
   - Time step size
   - Write interval and format

5. Initial and boundary conditions:
   - Inlet conditions (velocity, pressure, turbulence parameters)
   - Outlet conditions
   - Wall conditions
   - Initial field values

This information will help me generate appropriate:
- Mesh configuration
- Numerical schemes (fvSchemes)
- Solver settings (fvSolution)
- Initial conditions`
