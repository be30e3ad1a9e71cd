// Package encerr reports encoder diagnostics with stable numeric codes.
package encerr

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/logger"
)

type Code int

const (
	ErrOnlyPNGSupported          Code = 1001
	ErrMaterial                  Code = 1002
	ErrNoTextureSupport          Code = 1003
	ErrColladaDOM                Code = 1004
	ErrColladaOpenFile           Code = 1005
	ErrColladaNodeFailed         Code = 1006
	ErrColladaNodeNotFound       Code = 1007
	ErrColladaQueryFailed        Code = 1008
	ErrColladaMissingVisualScene Code = 1009
	ErrWritingTextFile           Code = 1010
	ErrWritingBinaryFile         Code = 1011
	ErrResolvingGeometryURL      Code = 1012
	ErrFBXImporterNotInitialized Code = 1013
	ErrFBXErrorMessage           Code = 1014
	ErrFailedToOpenWriteFile     Code = 1015
	ErrFileNotFound              Code = 1018
	ErrUnsupportedFileFormat     Code = 1019
	ErrDirectoryDoesNotExist     Code = 1026
	ErrTexCopy                   Code = 1027
	ErrFileNotCopied             Code = 1028
	ErrConvertPNG                Code = 1029

	WarnDuplicateKeyframes          Code = 2001
	WarnTransformNotSupported       Code = 2008
	WarnMaterialNotFound            Code = 2009
	WarnJointsNotFound              Code = 2010
	WarnMeshNotFound                Code = 2011
	WarnTrianglesNotFound           Code = 2012
	WarnUnsupportedVertexSemantic   Code = 2013
	WarnUnsupportedSemantic         Code = 2014
	WarnUnevenInputSources          Code = 2015
	WarnGenericFBXLog               Code = 2016
	WarnUnknownCameraType           Code = 2017
	WarnUnknownLightType            Code = 2018
	WarnInvalidAnimationTarget      Code = 2019
	WarnOptimizingChannels          Code = 2020
	WarnOptimizingAnimationChannel  Code = 2021
	WarnSymbolNotFound              Code = 2033
	WarnNoMaterialAssigned          Code = 2034
	WarnMultipleMaterialsAssigned   Code = 2035
	WarnNoTextureUsingFirstLayered  Code = 2036
	WarnLayeredTexturesNotSupported Code = 2037
	WarnTexturesNonPowerOfTwo       Code = 2038
	WarnNormalMapNotSupported       Code = 2039
	WarnTextureNotFound             Code = 2040
	WarnBumpMapNotSupported         Code = 2041
	WarnUsingDefaultMaterial        Code = 2042
	WarnMultipleTexturesUsingFirst  Code = 2043
	WarnUnsupportedDecay            Code = 2044
	WarnUnresolvedReference         Code = 2045

	InfoLog                 Code = 3001
	InfoSaveDebugFile       Code = 3002
	InfoSaveBinaryFile      Code = 3003
	InfoTextureConvertedPNG Code = 3004
	InfoUsingLayeredTexture Code = 3005
)

type definition struct {
	name   string
	format string
}

var table = map[Code]definition{
	ErrOnlyPNGSupported:          {"Only PNG Supported", "Encoder can handle only png's. Please use png's and export your file again (%s)"},
	ErrMaterial:                  {"Error in Material", "Error occurred in Material: %s"},
	ErrNoTextureSupport:          {"No <texture> Support", "Currently no support for <texture> in %s channel"},
	ErrColladaDOM:                {"COLLADA dom error", "COLLADA failed to read the document %s"},
	ErrColladaOpenFile:           {"COLLADA file error", "COLLADA failed to open file %s"},
	ErrColladaNodeFailed:         {"COLLADA node error", "COLLADA file loaded, but failed to load node %s"},
	ErrColladaNodeNotFound:       {"COLLADA node id error", "COLLADA file loaded, but node was not found with node ID %s"},
	ErrColladaQueryFailed:        {"COLLADA query failed", "COLLADA file loaded, but query for the assets failed"},
	ErrColladaMissingVisualScene: {"COLLADA missing <visual_scene>", "COLLADA file loaded, but missing <visual_scene>"},
	ErrWritingTextFile:           {"Error writing text file", "Error writing text file: %s"},
	ErrWritingBinaryFile:         {"Error writing binary file", "Error writing binary file: %s"},
	ErrResolvingGeometryURL:      {"Error resolving geometry url", "Failed to resolve geometry uri: %s"},
	ErrFBXImporterNotInitialized: {"FBX reader not initialized", "Failed to read fbx from path: %s"},
	ErrFBXErrorMessage:           {"Fbx Error", "Last Fbx error returned: %s"},
	ErrFailedToOpenWriteFile:     {"Failed to open file", "Failed to open file for writing: %s"},
	ErrFileNotFound:              {"File not found", "File not found: %s"},
	ErrUnsupportedFileFormat:     {"Unsupported file format", "Unsupported file format: %s"},
	ErrDirectoryDoesNotExist:     {"Directory does not exist", "The specified directory does not exist or is not writable: %s"},
	ErrTexCopy:                   {"Could not copy textures!", "Could not copy textures: src=%s dest=%s - error: %s"},
	ErrFileNotCopied:             {"File not copied", "The specified file could not be copied into the destination directory: %s"},
	ErrConvertPNG:                {"Error at conversion to png", "File could not be converted to png. src: %s png: %s"},

	WarnDuplicateKeyframes:          {"Duplicate Keyframes", "Removed %d duplicate keyframes from channel %s"},
	WarnTransformNotSupported:       {"Transform not supported", "%s transform found but not supported"},
	WarnMaterialNotFound:            {"Material not found", "Couldnt find material: %s"},
	WarnJointsNotFound:              {"Joints not found", "No joints found for skin: %s"},
	WarnMeshNotFound:                {"Mesh not found", "No mesh found for geometry: %s"},
	WarnTrianglesNotFound:           {"Triangles not found", "Geometry mesh has no triangles: %s"},
	WarnUnsupportedVertexSemantic:   {"Vertex semantic is invalid/unsupported", "Vertex semantic (%s) is invalid/unsupported for geometry mesh: %s"},
	WarnUnsupportedSemantic:         {"Semantic is invalid/unsupported", "Semantic (%s) is invalid/unsupported for geometry mesh: %s"},
	WarnUnevenInputSources:          {"Uneven number of input sources", "Triangles do not all have the same number of input sources for geometry mesh: %s"},
	WarnGenericFBXLog:               {"Generic Fbx message", "Fbx message: %s"},
	WarnUnknownCameraType:           {"Unknown camera type", "Unknown camera type in node: %s"},
	WarnUnknownLightType:            {"Unknown light type", "Unknown light type in node: %s"},
	WarnInvalidAnimationTarget:      {"Invalid animation target", "Invalid animation target (%d) attribute for node: %s"},
	WarnOptimizingChannels:          {"Optimizing animation channels", "Optimizing %d channel(s) in animation '%s'."},
	WarnOptimizingAnimationChannel:  {"Optimizing animation channel", "Optimizing animation channel %s:%s"},
	WarnSymbolNotFound:              {"Symbol not found", "Symbol not found: %s"},
	WarnNoMaterialAssigned:          {"Material not Assigned", "Mesh '%s' has no material assigned"},
	WarnMultipleMaterialsAssigned:   {"Multiple Materials Assigned", "Mesh '%s' has multiple materials assigned -> using first assigned material."},
	WarnNoTextureUsingFirstLayered:  {"No texture found", "Using first layered texture because no other texture was assigned to mesh '%s'."},
	WarnLayeredTexturesNotSupported: {"Layered textures not supported", "Layered textures are generally not supported. Using only first texture for mesh '%s'."},
	WarnTexturesNonPowerOfTwo:       {"Non power of two textures are used", "One of the textures has a non power of two width/height. Please change the size to power of two (eg. 512x512, 1024x1024). Texture-Path: %s"},
	WarnNormalMapNotSupported:       {"Normal Maps not supported", "Normal maps are currently not supported (%s)"},
	WarnTextureNotFound:             {"Texture-file not found", "filepath:%s - error: %s"},
	WarnBumpMapNotSupported:         {"Bump Maps not supported", "Bump maps are currently not supported (%s)"},
	WarnUsingDefaultMaterial:        {"Using default material", "Mesh part %d of '%s' uses default material"},
	WarnMultipleTexturesUsingFirst:  {"Multiple textures", "Material '%s' has multiple diffuse textures -> using first one."},
	WarnUnsupportedDecay:            {"Unsupported light decay", "Light decay of node %s is not supported, attenuation ignored"},
	WarnUnresolvedReference:         {"Unresolved reference", "Reference %s of %s can't be resolved"},

	InfoLog:                 {"Generic info", "log: %s"},
	InfoSaveDebugFile:       {"Saving debug file", "Saving debug file: %s"},
	InfoSaveBinaryFile:      {"Saving binary file", "Saving binary file: %s"},
	InfoTextureConvertedPNG: {"Texture was converted to png", "old: %s - new: %s"},
	InfoUsingLayeredTexture: {"Using layered texture", "Material '%s' uses first texture of layered texture"},
}

func (c Code) Name() string {
	if d, ok := table[c]; ok {
		return d.name
	}
	return "Unknown"
}

func (c Code) Message(args ...interface{}) string {
	d, ok := table[c]
	if !ok {
		return fmt.Sprint(args...)
	}
	return fmt.Sprintf(d.format, args...)
}

func (c Code) IsError() bool   { return c >= 1000 && c < 2000 }
func (c Code) IsWarning() bool { return c >= 2000 && c < 3000 }

func fields(c Code) []zap.Field {
	return []zap.Field{zap.Int("code", int(c)), zap.String("name", c.Name())}
}

// Error logs a recoverable error, processing goes on
func Error(c Code, args ...interface{}) {
	logger.Log.WithOptions(zap.AddCallerSkip(1)).Error(c.Message(args...), fields(c)...)
}

func Warning(c Code, args ...interface{}) {
	logger.Log.WithOptions(zap.AddCallerSkip(1)).Warn(c.Message(args...), fields(c)...)
}

func Info(c Code, args ...interface{}) {
	logger.Log.WithOptions(zap.AddCallerSkip(1)).Info(c.Message(args...), fields(c)...)
}

// Failure is an error carrying diagnostic code, returned for fatal conditions
type Failure struct {
	Code Code
	Msg  string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%d %s: %s", f.Code, f.Code.Name(), f.Msg)
}

func New(c Code, args ...interface{}) error {
	return &Failure{Code: c, Msg: c.Message(args...)}
}
