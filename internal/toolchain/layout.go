// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"fmt"
	"path/filepath"

	"github.com/niprov/niprov/pkg/platform"
)

// bundleHome is the nested directory macOS toolchain archives keep their
// JAVA_HOME under.
var bundleHome = filepath.Join("Contents", "Home")

// Layout is the set of fixed paths inside a provisioning workspace.
type Layout struct {
	Workspace string

	// Prebuilt release.
	ReleaseURL     string
	ReleaseArchive string
	GraalHome      string
	NativeImage    string

	// Source build.
	GraalSource  string
	SubstrateVM  string
	MxSource     string
	Mx           string
	JDKURL       string
	JDKArchive   string
	JDKHome      string
	OutputDir    string
	OutputBinary string
}

// NewLayout computes every path for workspace, target and pins. outputName is
// the file name native-image writes into OutputDir.
func NewLayout(workspace string, t Target, p Pins, outputName string) (*Layout, error) {
	releaseURL, err := p.ReleaseURL(t)
	if err != nil {
		return nil, err
	}
	jdkURL, err := p.JDKURL(t)
	if err != nil {
		return nil, err
	}
	update, err := JDKUpdate(p.JDKVersion)
	if err != nil {
		return nil, err
	}

	graalHome := BundleHome(t.OS, filepath.Join(workspace, "graalvm-ce-"+p.GraalVersion))
	jdkHome := BundleHome(t.OS, filepath.Join(workspace, fmt.Sprintf("openjdk1.8.0_%s-%s", update, p.JVMCIVersion)))
	outputDir := filepath.Join(workspace, "out")

	return &Layout{
		Workspace:      workspace,
		ReleaseURL:     releaseURL,
		ReleaseArchive: filepath.Join(workspace, ArchiveName(releaseURL)),
		GraalHome:      graalHome,
		NativeImage:    filepath.Join(graalHome, "bin", "native-image"),
		GraalSource:    filepath.Join(workspace, "graal"),
		SubstrateVM:    filepath.Join(workspace, "graal", "substratevm"),
		MxSource:       filepath.Join(workspace, "mx"),
		Mx:             filepath.Join(workspace, "mx", "mx"),
		JDKURL:         jdkURL,
		JDKArchive:     filepath.Join(workspace, ArchiveName(jdkURL)),
		JDKHome:        jdkHome,
		OutputDir:      outputDir,
		OutputBinary:   filepath.Join(outputDir, outputName),
	}, nil
}

// BundleHome appends the macOS application-bundle segment to root on darwin
// and returns root unchanged on every other platform.
func BundleHome(goos, root string) string {
	if platform.IsDarwin(goos) {
		return filepath.Join(root, bundleHome)
	}
	return root
}
