package launcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dcat-launcher/internal/config"
	"dcat-launcher/internal/runtime"
	"dcat-launcher/internal/target"
	"dcat-launcher/pkg/logger"

	"gotest.tools/v3/assert"
)

// fakeRuntime records every request the launcher issues.
type fakeRuntime struct {
	buildCalls []runtime.BuildImageOptions
	runCalls   []runtime.RunContainerOptions

	buildErr error
	runCode  int64
	runErr   error
}

func (f *fakeRuntime) BuildImage(ctx context.Context, opts *runtime.BuildImageOptions) error {
	f.buildCalls = append(f.buildCalls, *opts)
	return f.buildErr
}

func (f *fakeRuntime) RunContainer(ctx context.Context, opts *runtime.RunContainerOptions) (int64, error) {
	f.runCalls = append(f.runCalls, *opts)
	return f.runCode, f.runErr
}

func (f *fakeRuntime) RemoveImage(ctx context.Context, imageName string) error { return nil }
func (f *fakeRuntime) Ping(ctx context.Context) error                          { return nil }
func (f *fakeRuntime) Close() error                                            { return nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	for _, dir := range []string{"vocabulary-checker", "property-analysis", "ctx"} {
		assert.NilError(t, os.Mkdir(filepath.Join(root, dir), 0o755))
	}

	return &config.Config{
		Docker: config.DockerConfig{
			ContainerPrefix: "dcat-",
			PullBaseImages:  true,
		},
		Launcher: config.LauncherConfig{
			HostAlias:      "host.docker.internal",
			HostGateway:    "host-gateway",
			ContextRoot:    root,
			SPARQLEndpoint: "http://host.docker.internal:8890/sparql",
		},
	}
}

func testTarget() target.Target {
	return target.Target{
		Name:             "checker",
		Image:            "dcat-checker",
		ContextPath:      "ctx",
		NeedsHostGateway: true,
		EndpointEnv:      "SPARQL_ENDPOINT",
	}
}

func newTestLauncher(t *testing.T, rt *fakeRuntime) *Launcher {
	t.Helper()
	return New(rt, testConfig(t), logger.New(&logger.Config{Level: "error", Format: "json"}))
}

func TestLaunchRunsSameImageAfterBuild(t *testing.T) {
	rt := &fakeRuntime{}
	l := newTestLauncher(t, rt)

	err := l.Launch(context.Background(), testTarget())
	assert.NilError(t, err)

	assert.Equal(t, len(rt.buildCalls), 1)
	assert.Equal(t, len(rt.runCalls), 1)
	assert.Equal(t, rt.runCalls[0].ImageName, rt.buildCalls[0].ImageName)
}

func TestLaunchSkipsRunOnBuildFailure(t *testing.T) {
	rt := &fakeRuntime{
		buildErr: &runtime.BuildError{Image: "dcat-checker", Code: 17, Err: errors.New("step 3 failed")},
	}
	l := newTestLauncher(t, rt)

	err := l.Launch(context.Background(), testTarget())
	assert.Assert(t, err != nil)
	assert.Equal(t, len(rt.runCalls), 0)

	var berr *runtime.BuildError
	assert.Assert(t, errors.As(err, &berr))
	assert.Equal(t, berr.ExitCode(), 17)
}

func TestBuildAlwaysDisablesCache(t *testing.T) {
	rt := &fakeRuntime{}
	l := newTestLauncher(t, rt)

	assert.NilError(t, l.Build(context.Background(), testTarget()))
	assert.NilError(t, l.Launch(context.Background(), testTarget()))

	for _, call := range rt.buildCalls {
		assert.Assert(t, call.NoCache, "every build request must disable the cache")
	}
}

func TestRunAlwaysAutoRemoves(t *testing.T) {
	rt := &fakeRuntime{}
	l := newTestLauncher(t, rt)

	assert.NilError(t, l.Launch(context.Background(), testTarget()))
	rt.runCode = 2
	l.Launch(context.Background(), testTarget())

	assert.Equal(t, len(rt.runCalls), 2)
	for _, call := range rt.runCalls {
		assert.Assert(t, call.AutoRemove, "every run request must remove the container on exit")
	}
}

func TestLaunchVocabChecker(t *testing.T) {
	rt := &fakeRuntime{}
	l := newTestLauncher(t, rt)

	vocab, err := target.Lookup("vocab-checker")
	assert.NilError(t, err)

	assert.NilError(t, l.Launch(context.Background(), vocab))

	assert.Equal(t, len(rt.runCalls), 1)
	run := rt.runCalls[0]
	assert.Equal(t, run.ImageName, "dcat-vocab-checker")
	assert.Assert(t, run.Interactive)
	assert.Assert(t, run.AutoRemove)
}

func TestLaunchPropagatesContainerExitCode(t *testing.T) {
	rt := &fakeRuntime{runCode: 3}
	l := newTestLauncher(t, rt)

	err := l.Launch(context.Background(), testTarget())
	var exitErr *ExitError
	assert.Assert(t, errors.As(err, &exitErr))
	assert.Equal(t, exitErr.ExitCode(), 3)
}

func TestHostGatewayMapping(t *testing.T) {
	rt := &fakeRuntime{}
	l := newTestLauncher(t, rt)

	assert.NilError(t, l.Launch(context.Background(), testTarget()))

	run := rt.runCalls[0]
	assert.Equal(t, len(run.ExtraHosts), 1)
	assert.Equal(t, run.ExtraHosts[0], "host.docker.internal:host-gateway")
	assert.Assert(t, contains(run.Env, "SPARQL_ENDPOINT=http://host.docker.internal:8890/sparql"))
}

func TestNoHostGatewayWhenNotNeeded(t *testing.T) {
	rt := &fakeRuntime{}
	l := newTestLauncher(t, rt)

	tgt := testTarget()
	tgt.NeedsHostGateway = false

	assert.NilError(t, l.Launch(context.Background(), tgt))
	assert.Equal(t, len(rt.runCalls[0].ExtraHosts), 0)
}

func TestDryRunIssuesNoRequests(t *testing.T) {
	rt := &fakeRuntime{}
	l := newTestLauncher(t, rt)
	l.DryRun = true

	assert.NilError(t, l.Launch(context.Background(), testTarget()))
	assert.Equal(t, len(rt.buildCalls), 0)
	assert.Equal(t, len(rt.runCalls), 0)
}

func TestLaunchRejectsMissingContext(t *testing.T) {
	rt := &fakeRuntime{}
	l := newTestLauncher(t, rt)

	tgt := testTarget()
	tgt.ContextPath = "does-not-exist"

	err := l.Launch(context.Background(), tgt)
	assert.Assert(t, err != nil)
	assert.Equal(t, len(rt.buildCalls), 0)
}

func TestContainerNamesAreUnique(t *testing.T) {
	rt := &fakeRuntime{}
	l := newTestLauncher(t, rt)

	assert.NilError(t, l.Launch(context.Background(), testTarget()))
	assert.NilError(t, l.Launch(context.Background(), testTarget()))

	first := rt.runCalls[0].ContainerName
	second := rt.runCalls[1].ContainerName
	assert.Assert(t, strings.HasPrefix(first, "dcat-checker-"))
	assert.Assert(t, first != second, "reused container names collide with auto-removal")
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
