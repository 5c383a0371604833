package announcer

//go:generate mockgen -source=announcer.go -destination=mocks/mocks.go -package=mocks Holidays,Publisher

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"feriadobot/internal/announcer/mocks"
	"feriadobot/internal/holiday/metrics"
	"feriadobot/internal/holiday/models"
	"feriadobot/internal/holiday/providers"
	"feriadobot/internal/publisher"
)

type AnnouncerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	holidays  *mocks.MockHolidays
	publisher *mocks.MockPublisher
	metrics   *metrics.Metrics
	announcer *Announcer
	loc       *time.Location
}

func TestAnnouncerSuite(t *testing.T) {
	suite.Run(t, new(AnnouncerSuite))
}

func (s *AnnouncerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.holidays = mocks.NewMockHolidays(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())

	var err error
	s.announcer, err = New(s.holidays, s.publisher, WithMetrics(s.metrics))
	s.Require().NoError(err)

	s.loc, err = time.LoadLocation("America/Buenos_Aires")
	s.Require().NoError(err)
}

func (s *AnnouncerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AnnouncerSuite) lookup(origin models.Origin, records ...models.Record) models.Lookup {
	return models.Lookup{Year: 2025, Records: records, Origin: origin}
}

var (
	navidad    = models.Record{Date: models.Date{Year: 2025, Month: time.December, Day: 25}, Name: "Navidad"}
	inmaculada = models.Record{Date: models.Date{Year: 2025, Month: time.December, Day: 8}, Name: "Inmaculada Concepción de María"}
)

func (s *AnnouncerSuite) TestNew() {
	s.Run("nil holidays returns error", func() {
		_, err := New(nil, s.publisher)
		s.ErrorContains(err, "holidays repository is required")
	})

	s.Run("nil publisher returns error", func() {
		_, err := New(s.holidays, nil)
		s.ErrorContains(err, "publisher is required")
	})
}

func (s *AnnouncerSuite) TestRunPublishes() {
	now := time.Date(2025, time.December, 20, 0, 0, 0, 0, s.loc)
	want := "📆 Próximo feriado: Navidad (25/12)\n\n⏳ Faltan 5 días, 0h 0min"

	s.holidays.EXPECT().Get(gomock.Any(), 2025).Return(s.lookup(models.OriginCache, inmaculada, navidad))
	s.publisher.EXPECT().Publish(gomock.Any(), want).
		Return(publisher.Receipt{ID: "1882", Channel: publisher.ChannelTwitter}, nil)

	report := s.announcer.Run(context.Background(), now)

	s.Equal(OutcomePublished, report.Outcome)
	s.Equal(models.OriginCache, report.Origin)
	s.Equal(navidad, report.Holiday)
	s.Equal(models.Countdown{Days: 5}, report.Countdown)
	s.Equal(want, report.Message)
	s.Equal("1882", report.Receipt.ID)
	s.NoError(report.Err)
	_, err := uuid.Parse(report.RunID)
	s.NoError(err)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.RunsTotal.WithLabelValues(string(OutcomePublished))))
	s.Equal(5.0, testutil.ToFloat64(s.metrics.DaysUntilHoliday))
}

func (s *AnnouncerSuite) TestRunToday() {
	now := time.Date(2025, time.December, 25, 0, 0, 0, 0, s.loc)

	s.holidays.EXPECT().Get(gomock.Any(), 2025).Return(s.lookup(models.OriginRemote, navidad))
	s.publisher.EXPECT().Publish(gomock.Any(), "🎉 ¡HOY ES Navidad!\n\n¡A disfrutar el día! 🇦🇷").
		Return(publisher.Receipt{ID: "1", Channel: publisher.ChannelStdout}, nil)

	report := s.announcer.Run(context.Background(), now)
	s.Equal(OutcomePublished, report.Outcome)
	s.Contains(report.Message, "Navidad")
}

func (s *AnnouncerSuite) TestRunWithoutData() {
	s.holidays.EXPECT().Get(gomock.Any(), 2025).Return(s.lookup(models.OriginUnavailable))
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	report := s.announcer.Run(context.Background(), time.Date(2025, time.June, 1, 9, 0, 0, 0, s.loc))

	s.Equal(OutcomeNoData, report.Outcome)
	s.Equal(models.OriginUnavailable, report.Origin)
	s.Equal(NoDataMessage, report.Message)
	s.NoError(report.Err)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RunsTotal.WithLabelValues(string(OutcomeNoData))))
}

func (s *AnnouncerSuite) TestRunNoUpcoming() {
	s.holidays.EXPECT().Get(gomock.Any(), 2025).Return(s.lookup(models.OriginCache, inmaculada, navidad))
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	report := s.announcer.Run(context.Background(), time.Date(2025, time.December, 26, 0, 0, 0, 0, s.loc))

	s.Equal(OutcomeNoUpcoming, report.Outcome)
	s.Equal("No hay más feriados este año.", report.Message)
	s.Equal(models.Record{}, report.Holiday)
}

func (s *AnnouncerSuite) TestRunPublishFailure() {
	now := time.Date(2025, time.December, 24, 22, 30, 0, 0, s.loc)
	publishErr := providers.NewProviderError(providers.ErrorRateLimited, "twitter", "unexpected status code: 429", nil)

	s.holidays.EXPECT().Get(gomock.Any(), 2025).Return(s.lookup(models.OriginCache, navidad))
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(publisher.Receipt{}, publishErr).Times(1)

	report := s.announcer.Run(context.Background(), now)

	s.Equal(OutcomePublishFailed, report.Outcome)
	s.ErrorIs(report.Err, publishErr)
	s.Equal(models.Countdown{Hours: 1, Minutes: 30}, report.Countdown)
	s.Contains(report.Message, "HOY ES Navidad")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RunsTotal.WithLabelValues(string(OutcomePublishFailed))))
}

func (s *AnnouncerSuite) TestRunUsesYearOfNow() {
	now := time.Date(2026, time.January, 1, 0, 30, 0, 0, s.loc)
	anioNuevo := models.Record{Date: models.Date{Year: 2026, Month: time.January, Day: 1}, Name: "Año nuevo"}

	s.holidays.EXPECT().Get(gomock.Any(), 2026).Return(models.Lookup{Year: 2026, Records: []models.Record{anioNuevo}, Origin: models.OriginRemote})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(publisher.Receipt{ID: "x"}, nil)

	report := s.announcer.Run(context.Background(), now)
	s.Equal(OutcomePublished, report.Outcome)
	s.Equal(anioNuevo, report.Holiday)
}
