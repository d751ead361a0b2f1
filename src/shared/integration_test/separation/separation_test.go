package separation_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	server_app "github.com/veedubyou/separation-be/src/server/application"
	"github.com/veedubyou/separation-be/src/shared/audio"
	"github.com/veedubyou/separation-be/src/shared/config"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/job/entity"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera"
	. "github.com/veedubyou/separation-be/src/shared/testing"
	worker_app "github.com/veedubyou/separation-be/src/worker/application"
)

// modelRuntime answers the chimera serving protocol, keeping the first source.
func modelRuntime() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/chimera:infer", func(w http.ResponseWriter, r *http.Request) {
		request := struct {
			Spectrogram [][]float64 `json:"spectrogram"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		inference, err := KeepFirstSource(r.Context(), request.Spectrogram)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(inference)
	})

	return httptest.NewServer(mux)
}

func writeManifest(dir string, servingURL string) {
	manifest := chimera.Manifest{
		Name:       "chimera",
		ServingURL: servingURL,
		NumSources: 2,
	}

	contents := ExpectSuccess(json.Marshal(manifest))
	Expect(os.WriteFile(filepath.Join(dir, chimera.ManifestFileName), contents, 0o644)).To(Succeed())
}

var _ = Describe("Separation", func() {
	var (
		runtime   *httptest.Server
		serverApp server_app.App
		workerApp worker_app.App
		fileDirs  config.LocalFileStorage
	)

	BeforeEach(func() {
		ResetDB(db)

		runtime = modelRuntime()
		modelDir := TempDir()
		writeManifest(modelDir, runtime.URL)

		fileDirs = config.LocalFileStorage{
			UploadDir:    TempDir(),
			ConvertedDir: TempDir(),
		}

		serverConfig := ServerConfig()
		serverConfig.FileStorage = fileDirs
		serverConfig.ModelDir = modelDir
		serverConfig.PublicBaseURL = ServerEndpoint("")
		serverApp = server_app.NewApp(serverConfig)

		workerConfig := WorkerConfig()
		workerConfig.FileStorage = fileDirs
		workerConfig.ModelDir = modelDir
		workerConfig.PublicBaseURL = ServerEndpoint("")
		workerApp = worker_app.NewApp(workerConfig)

		ResetRabbitMQ(conn)

		go func() {
			defer GinkgoRecover()
			Expect(serverApp.Start()).To(Succeed())
		}()

		Eventually(func() (int, error) {
			response, err := RequestFactory{Method: http.MethodGet, Target: ServerEndpoint("/health-check")}.Do()
			if err != nil {
				return 0, err
			}
			defer response.Body.Close()
			return response.StatusCode, nil
		}).WithTimeout(5 * time.Second).Should(Equal(http.StatusOK))

		Expect(workerApp.Start()).To(Succeed())
	})

	AfterEach(func() {
		workerApp.Stop()
		Expect(serverApp.Stop()).To(Succeed())
		runtime.Close()
	})

	getJob := func(id string) jobentity.Job {
		response := ExpectSuccess(RequestFactory{
			Method: http.MethodGet,
			Target: ServerEndpoint("/api/v1/jobs/" + id),
		}.Do())
		defer response.Body.Close()

		Expect(response.StatusCode).To(Equal(http.StatusOK))
		return DecodeJSON[jobentity.Job](response.Body)
	}

	It("separates an uploaded mixture through the queue", func() {
		response := ExpectSuccess(RequestFactory{
			Method: http.MethodPost,
			Target: ServerEndpoint("/api/v1/jobs"),
			Upload: &FileUpload{
				Filename: "mixture.wav",
				Contents: ToneWAV(conversion.SampleRate, 3000),
			},
		}.Do())
		defer response.Body.Close()

		Expect(response.StatusCode).To(Equal(http.StatusAccepted))
		queued := DecodeJSON[jobentity.Job](response.Body)

		var job jobentity.Job
		Eventually(func() jobentity.Status {
			job = getJob(queued.ID)
			return job.Status
		}).WithTimeout(30 * time.Second).WithPolling(200 * time.Millisecond).Should(Equal(jobentity.StatusDone))

		Expect(job.ResultURL).To(HavePrefix(ServerEndpoint("/api/v1/converted/")))

		By("serving the converted file")
		converted := ExpectSuccess(RequestFactory{Method: http.MethodGet, Target: job.ResultURL}.Do())
		defer converted.Body.Close()

		Expect(converted.StatusCode).To(Equal(http.StatusOK))
		Expect(converted.Header.Get("Content-Type")).To(Equal("audio/wav"))

		contents := ExpectSuccess(io.ReadAll(converted.Body))
		decoded := ExpectSuccess(audio.Decode(audio.WAV, contents))
		Expect(decoded.Samples).To(HaveLen(3000))

		By("cleaning up the upload")
		uploads := ExpectSuccess(os.ReadDir(fileDirs.UploadDir))
		Expect(uploads).To(BeEmpty())
	})
})
